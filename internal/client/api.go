package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/clock-tasks/internal/model"
)

var ErrAllCandidatesFailed = errors.New("all connection attempts failed")

// APIError is a non-2xx answer from the task service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

type API struct {
	candidates []string
	http       *http.Client
	logger     *zap.Logger
}

// NewAPI returns a client for the task service. base is used for task calls
// and is tried first for the time probe; fallbacks follow in order.
func NewAPI(base string, fallbacks []string, httpClient *http.Client, logger *zap.Logger) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	seen := make(map[string]bool)
	var candidates []string
	for _, u := range append([]string{base}, fallbacks...) {
		u = strings.TrimRight(u, "/")
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		candidates = append(candidates, u)
	}

	return &API{
		candidates: candidates,
		http:       httpClient,
		logger:     logger,
	}
}

// Candidates returns the base URLs the time probe tries, in order.
func (a *API) Candidates() []string {
	return append([]string(nil), a.candidates...)
}

// FetchTime asks each candidate for GET /api and returns the first answer that decodes.
func (a *API) FetchTime(ctx context.Context) (time.Time, error) {
	var errs []error
	for _, base := range a.candidates {
		var body model.TimeResponse
		err := a.do(ctx, http.MethodGet, base+"/api", nil, &body, "Failed to fetch time")
		if err == nil {
			a.logger.Debug("time fetched", zap.String("base", base))
			return body.Time, nil
		}
		a.logger.Debug("time candidate failed", zap.String("base", base), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", base, err))
	}
	return time.Time{}, fmt.Errorf("%w: %w", ErrAllCandidatesFailed, errors.Join(errs...))
}

func (a *API) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := a.do(ctx, http.MethodGet, a.base()+"/api/tasks", nil, &tasks, "Failed to fetch tasks"); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (a *API) CreateTask(ctx context.Context, title string) (model.Task, error) {
	var task model.Task
	err := a.do(ctx, http.MethodPost, a.base()+"/api/tasks", model.CreateTaskRequest{Title: title}, &task, "Failed to create task")
	return task, err
}

func (a *API) ToggleTask(ctx context.Context, id int64) (model.Task, error) {
	var task model.Task
	err := a.do(ctx, http.MethodPatch, fmt.Sprintf("%s/api/tasks/%d/toggle", a.base(), id), nil, &task, "Failed to update task")
	return task, err
}

func (a *API) DeleteTask(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("%s/api/tasks/%d", a.base(), id), nil, nil, "Failed to delete task")
}

func (a *API) base() string {
	if len(a.candidates) == 0 {
		return ""
	}
	return a.candidates[0]
}

// do sends one request. out may be nil when no body is expected.
func (a *API) do(ctx context.Context, method, url string, in, out any, fallback string) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		msg := payload.Error
		if msg == "" {
			msg = fallback
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
