package repo

import (
	"context"

	"github.com/BuzzLyutic/tasktrack/internal/model"
)

// TaskRepository определяет интерфейс для работы с хранилищем задач
type TaskRepository interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	Add(ctx context.Context, t model.Task) (model.Task, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	Delete(ctx context.Context, id int64) error
}
