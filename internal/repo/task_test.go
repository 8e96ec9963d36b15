package repo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/clock-tasks/tests"
)

func TestTaskRepo_CreateAndList(t *testing.T) {
	pool, cleanup := tests.SetupTestDB(t)
	defer cleanup()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		tests.TruncateTables(t, pool)

		created, err := repo.Create(ctx, "Buy milk")
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "Buy milk", created.Title)
		assert.False(t, created.IsDone)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("newest first", func(t *testing.T) {
		tests.TruncateTables(t, pool)

		a, err := repo.Create(ctx, "A")
		require.NoError(t, err)
		b, err := repo.Create(ctx, "B")
		require.NoError(t, err)
		c, err := repo.Create(ctx, "C")
		require.NoError(t, err)

		tasks, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, []int64{c.ID, b.ID, a.ID}, []int64{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	})

	t.Run("empty table", func(t *testing.T) {
		tests.TruncateTables(t, pool)

		tasks, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("blank title rejected by schema", func(t *testing.T) {
		_, err := repo.Create(ctx, "   ")
		assert.ErrorIs(t, err, ErrorInvalidTitle)
	})
}

func TestTaskRepo_Toggle(t *testing.T) {
	pool, cleanup := tests.SetupTestDB(t)
	defer cleanup()

	repo := NewTaskRepo(pool)
	ctx := context.Background()
	tests.TruncateTables(t, pool)
	ids := tests.SeedTasks(t, pool, 1)

	first, err := repo.Toggle(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, first.IsDone)

	second, err := repo.Toggle(ctx, ids[0])
	require.NoError(t, err)
	assert.False(t, second.IsDone)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, first.Title, second.Title)

	_, err = repo.Toggle(ctx, 99999)
	assert.ErrorIs(t, err, ErrorNotFound)
}

func TestTaskRepo_ConcurrentToggles(t *testing.T) {
	pool, cleanup := tests.SetupTestDB(t)
	defer cleanup()

	repo := NewTaskRepo(pool)
	ctx := context.Background()
	tests.TruncateTables(t, pool)
	ids := tests.SeedTasks(t, pool, 1)

	const goroutines = 20
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Toggle(ctx, ids[0])
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Чётное число переключений возвращает исходное значение
	var done bool
	require.NoError(t, pool.QueryRow(ctx, "SELECT is_done FROM tasks WHERE id = $1", ids[0]).Scan(&done))
	assert.False(t, done)
}

func TestTaskRepo_Delete(t *testing.T) {
	pool, cleanup := tests.SetupTestDB(t)
	defer cleanup()

	repo := NewTaskRepo(pool)
	ctx := context.Background()
	tests.TruncateTables(t, pool)
	ids := tests.SeedTasks(t, pool, 3)

	require.NoError(t, repo.Delete(ctx, ids[1]))
	assert.ErrorIs(t, repo.Delete(ctx, ids[1]), ErrorNotFound)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	for _, task := range tasks {
		assert.NotEqual(t, ids[1], task.ID)
	}
}

func TestTaskRepo_Now(t *testing.T) {
	pool, cleanup := tests.SetupTestDB(t)
	defer cleanup()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	first, err := repo.Now(ctx)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	second, err := repo.Now(ctx)
	require.NoError(t, err)
	assert.True(t, second.After(first), "expected %v after %v", second, first)

	name, err := repo.CurrentDatabase(ctx)
	require.NoError(t, err)
	assert.Equal(t, "testdb", name)
}
