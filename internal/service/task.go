package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BuzzLyutic/tasktrack/internal/model"
	"github.com/BuzzLyutic/tasktrack/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("task not found")
)

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, title, description string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" { // Валидация введенных данных
		return model.Task{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}

	t := model.Task{
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      model.StatusTodo,
	}
	return s.repo.Add(ctx, t)
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.requireTask(ctx, id)
}

// List сохраняет порядок репозитория (порядок вставки)
func (s *TaskService) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Status == nil {
		return tasks, nil
	}

	filtered := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == *filter.Status {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (s *TaskService) ChangeStatus(ctx context.Context, id int64, next model.Status) (model.Task, error) {
	t, err := s.requireTask(ctx, id)
	if err != nil {
		return t, err
	}

	if err := t.UpdateStatus(next); err != nil { // done - терминальное состояние
		return t, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.repo.Update(ctx, t)
}

// UpdateDetails заменяет только переданные поля
func (s *TaskService) UpdateDetails(ctx context.Context, id int64, title, description *string) (model.Task, error) {
	t, err := s.requireTask(ctx, id)
	if err != nil {
		return t, err
	}

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return t, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		t.Title = trimmed
	}
	if description != nil {
		t.Description = strings.TrimSpace(*description)
	}
	return s.repo.Update(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) {
		// Единый контракт not found для путей чтения и удаления
		return fmt.Errorf("%w: id=%d", ErrNotFound, id)
	}
	return err
}

func (s *TaskService) requireTask(ctx context.Context, id int64) (model.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) {
		return t, fmt.Errorf("%w: id=%d", ErrNotFound, id)
	}
	return t, err
}
