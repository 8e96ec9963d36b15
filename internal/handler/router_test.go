package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/clock-tasks/internal/model"
	"github.com/BuzzLyutic/clock-tasks/internal/repo"
	"github.com/BuzzLyutic/clock-tasks/internal/service"
	"github.com/BuzzLyutic/clock-tasks/internal/store"
	"github.com/BuzzLyutic/clock-tasks/tests"
)

func setupE2EServer(t *testing.T) (*httptest.Server, func()) {
	pool, cleanup := tests.SetupTestDB(t)
	tests.TruncateTables(t, pool)

	logger := zap.NewNop()
	taskHandler := NewTaskHandler(service.NewTaskService(repo.NewTaskRepo(pool)), logger)

	lc := store.NewLifecycle(logger)
	lc.Transition(store.StateConnecting)
	lc.Transition(store.StateReady)

	server := httptest.NewServer(NewRouter(taskHandler, lc, logger))

	return server, func() {
		server.Close()
		cleanup()
	}
}

func createTask(t *testing.T, server *httptest.Server, title string) model.Task {
	t.Helper()
	body, _ := json.Marshal(model.CreateTaskRequest{Title: title})

	resp, err := http.Post(server.URL+"/api/tasks", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var task model.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	return task
}

func listTasks(t *testing.T, server *httptest.Server) []model.Task {
	t.Helper()
	resp, err := http.Get(server.URL + "/api/tasks")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []model.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	return tasks
}

func do(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestE2E_FullWorkflow(t *testing.T) {
	server, cleanup := setupE2EServer(t)
	defer cleanup()

	// 1. Создание с обрезкой пробелов
	created := createTask(t, server, "  Buy milk  ")
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.IsDone)
	assert.False(t, created.CreatedAt.IsZero())

	// 2. Пустой заголовок не создаёт строку
	for _, title := range []string{"", "   "} {
		body, _ := json.Marshal(model.CreateTaskRequest{Title: title})
		resp, err := http.Post(server.URL+"/api/tasks", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
	assert.Len(t, listTasks(t, server), 1)

	// 3. Двойное переключение
	toggleURL := fmt.Sprintf("%s/api/tasks/%d/toggle", server.URL, created.ID)
	var toggled model.Task
	for _, want := range []bool{true, false} {
		resp := do(t, http.MethodPatch, toggleURL)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&toggled))
		resp.Body.Close()
		assert.Equal(t, want, toggled.IsDone)
	}
	assert.True(t, created.CreatedAt.Equal(toggled.CreatedAt))

	resp := do(t, http.MethodPatch, server.URL+"/api/tasks/99999/toggle")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// 4. Удаление, повторное удаление
	deleteURL := fmt.Sprintf("%s/api/tasks/%d", server.URL, created.ID)
	resp = do(t, http.MethodDelete, deleteURL)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, http.MethodDelete, deleteURL)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	for _, task := range listTasks(t, server) {
		assert.NotEqual(t, created.ID, task.ID)
	}
}

func TestE2E_ListOrder(t *testing.T) {
	server, cleanup := setupE2EServer(t)
	defer cleanup()

	a := createTask(t, server, "A")
	b := createTask(t, server, "B")
	c := createTask(t, server, "C")

	tasks := listTasks(t, server)
	require.Len(t, tasks, 3)
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, []int64{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestE2E_TimeIncreases(t *testing.T) {
	server, cleanup := setupE2EServer(t)
	defer cleanup()

	fetch := func() time.Time {
		resp, err := http.Get(server.URL + "/api")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body model.TimeResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.Time
	}

	first := fetch()
	time.Sleep(50 * time.Millisecond)
	second := fetch()
	assert.True(t, second.After(first), "expected %v after %v", second, first)
}
