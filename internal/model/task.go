package model

import (
	"errors"
	"fmt"
	"time"
)

// Status - закрытое перечисление статусов задачи
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

var ErrTerminalStatus = errors.New("task is done and cannot change status")

// ParseStatus отклоняет неизвестные значения
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdateStatus применяет правило переходов: done - терминальное состояние
func (t *Task) UpdateStatus(next Status) error {
	if t.Status == StatusDone && next != StatusDone {
		return ErrTerminalStatus
	}
	t.Status = next
	t.UpdatedAt = time.Now().UTC()
	return nil
}

type TaskFilter struct {
	Status *Status
}
