package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/clock-tasks/internal/model"
)

var (
	ErrorNotFound     = errors.New("not found")
	ErrorInvalidTitle = errors.New("invalid title")
)

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	err := r.pool.QueryRow(ctx, "SELECT now()").Scan(&now)
	return now, err
}

// CurrentDatabase returns the name of the database the pool is connected to.
func (r *TaskRepo) CurrentDatabase(ctx context.Context) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, "SELECT current_database()").Scan(&name)
	return name, err
}

func (r *TaskRepo) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, is_done, created_at
		FROM tasks
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.IsDone, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) Create(ctx context.Context, title string) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title)
		VALUES ($1)
		RETURNING id, title, is_done, created_at
	`, title).Scan(&t.ID, &t.Title, &t.IsDone, &t.CreatedAt)

	// CHECK (btrim(title) <> '')
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
		return t, ErrorInvalidTitle
	}
	return t, err
}

// Toggle flips is_done in one statement so concurrent toggles never read stale state.
func (r *TaskRepo) Toggle(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET is_done = NOT is_done
		WHERE id = $1
		RETURNING id, title, is_done, created_at
	`, id).Scan(&t.ID, &t.Title, &t.IsDone, &t.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}
