package migrations

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed 001_create_tasks.up.sql
var createTasks string

// Apply creates the tasks table if it does not exist yet.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createTasks)
	return err
}
