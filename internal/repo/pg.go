package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/tasktrack/internal/model"
)

type PgRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewPgRepo(pool *pgxpool.Pool) *PgRepo { // Конструктор
	return &PgRepo{
		pool: pool,
	}
}

func (r *PgRepo) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, status, created_at, updated_at
		FROM tasks
		ORDER BY id
	`)
	if err != nil {
		return nil, r.mapError(err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, r.mapError(err)
		}
		tasks = append(tasks, t)
	}
	return tasks, r.mapError(rows.Err())
}

func (r *PgRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, description, status, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, r.mapError(err)
}

func (r *PgRepo) Add(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status)
		VALUES ($1, $2, $3)
		RETURNING id, title, description, status, created_at, updated_at
	`, t.Title, t.Description, t.Status).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, r.mapError(err)
}

func (r *PgRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	if t.ID == 0 {
		return t, fmt.Errorf("%w: cannot update a task without an id", ErrorInvalid)
	}

	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, title, description, status, created_at, updated_at
	`, t.ID, t.Title, t.Description, t.Status).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, fmt.Errorf("%w: task with id=%d does not exist", ErrorStorage, t.ID)
	}
	return t, r.mapError(err)
}

func (r *PgRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return r.mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

// mapError приводит ошибки драйвера к единому виду хранилища
func (r *PgRepo) mapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrorStorage, err)
}
