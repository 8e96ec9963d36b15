package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BuzzLyutic/clock-tasks/internal/model"
	"github.com/BuzzLyutic/clock-tasks/internal/repo"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrStoreUnavailable = errors.New("store unavailable")
)

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// GetTime returns the current time as reported by the database.
func (s *TaskService) GetTime(ctx context.Context) (time.Time, error) {
	now, err := s.repo.Now(ctx)
	if err != nil {
		return time.Time{}, unavailable("get time", err)
	}
	return now, nil
}

// ListTasks returns every task, newest first.
func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, unavailable("list tasks", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, title string) (model.Task, error) {
	title, err := s.validateTitle(title)
	if err != nil {
		return model.Task{}, err
	}

	task, err := s.repo.Create(ctx, title)
	if err != nil {
		if errors.Is(err, repo.ErrorInvalidTitle) {
			return model.Task{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return model.Task{}, unavailable("create task", err)
	}
	return task, nil
}

func (s *TaskService) ToggleTask(ctx context.Context, id int64) (model.Task, error) {
	task, err := s.repo.Toggle(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			return model.Task{}, err
		}
		return model.Task{}, unavailable("toggle task", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			return err
		}
		return unavailable("delete task", err)
	}
	return nil
}

func (s *TaskService) validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrValidation
	}
	return title, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
