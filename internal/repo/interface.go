package repo

import (
	"context"
	"time"

	"github.com/BuzzLyutic/clock-tasks/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Now(ctx context.Context) (time.Time, error)
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, title string) (model.Task, error)
	Toggle(ctx context.Context, id int64) (model.Task, error)
	Delete(ctx context.Context, id int64) error
}
