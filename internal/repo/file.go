package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BuzzLyutic/tasktrack/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorStorage  = errors.New("storage error")
	ErrorInvalid  = errors.New("invalid task")
)

type FileRepo struct { // Репозиторий поверх одного JSON-файла
	path string
}

func NewFileRepo(path string) *FileRepo { // Конструктор
	return &FileRepo{path: path}
}

// taskRecord - сериализованная форма записи.
// Указатели нужны, чтобы отличать отсутствующее поле от пустого.
type taskRecord struct {
	ID          int64      `json:"id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status,omitempty"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func recordFromTask(t model.Task) taskRecord {
	status := string(t.Status)
	created, updated := t.CreatedAt, t.UpdatedAt
	return taskRecord{
		ID:          t.ID,
		Title:       &t.Title,
		Description: &t.Description,
		Status:      &status,
		CreatedAt:   &created,
		UpdatedAt:   &updated,
	}
}

func taskFromRecord(rec taskRecord) (model.Task, error) {
	var t model.Task

	if rec.Title == nil || rec.CreatedAt == nil || rec.UpdatedAt == nil {
		return t, fmt.Errorf("%w: record id=%d is missing required fields", ErrorStorage, rec.ID)
	}

	// Отсутствующий статус трактуем как todo (обратная совместимость),
	// неизвестный - как повреждение файла
	status := model.StatusTodo
	if rec.Status != nil {
		parsed, err := model.ParseStatus(*rec.Status)
		if err != nil {
			return t, fmt.Errorf("%w: record id=%d: %v", ErrorStorage, rec.ID, err)
		}
		status = parsed
	}

	t = model.Task{
		ID:        rec.ID,
		Title:     *rec.Title,
		Status:    status,
		CreatedAt: *rec.CreatedAt,
		UpdatedAt: *rec.UpdatedAt,
	}
	if rec.Description != nil {
		t.Description = *rec.Description
	}
	return t, nil
}

// readAll читает файл целиком; отсутствующий или пустой файл равен пустому массиву
func (r *FileRepo) readAll() ([]taskRecord, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrorStorage, r.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var rows []taskRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrorStorage, r.path, err)
	}
	return rows, nil
}

// writeAll перезаписывает файл целиком, предварительно создав каталог
func (r *FileRepo) writeAll(rows []taskRecord) error {
	if rows == nil {
		rows = []taskRecord{}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode tasks: %v", ErrorStorage, err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: failed to create %s: %v", ErrorStorage, dir, err)
		}
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrorStorage, r.path, err)
	}
	return nil
}

func (r *FileRepo) List(_ context.Context) ([]model.Task, error) {
	rows, err := r.readAll()
	if err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, rec := range rows {
		t, err := taskFromRecord(rec)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *FileRepo) Get(_ context.Context, id int64) (model.Task, error) {
	rows, err := r.readAll()
	if err != nil {
		return model.Task{}, err
	}

	for _, rec := range rows { // Линейный поиск, первое совпадение выигрывает
		if rec.ID == id {
			return taskFromRecord(rec)
		}
	}
	return model.Task{}, ErrorNotFound
}

func (r *FileRepo) Add(_ context.Context, t model.Task) (model.Task, error) {
	rows, err := r.readAll()
	if err != nil {
		return t, err
	}

	var maxID int64
	for _, rec := range rows {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}
	t.ID = maxID + 1

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	rows = append(rows, recordFromTask(t))
	if err := r.writeAll(rows); err != nil {
		return t, err
	}
	return t, nil
}

func (r *FileRepo) Update(_ context.Context, t model.Task) (model.Task, error) {
	if t.ID == 0 {
		return t, fmt.Errorf("%w: cannot update a task without an id", ErrorInvalid)
	}

	rows, err := r.readAll()
	if err != nil {
		return t, err
	}

	t.UpdatedAt = time.Now().UTC()

	found := false
	for i, rec := range rows { // Замена на месте, порядок записей сохраняется
		if rec.ID == t.ID {
			rows[i] = recordFromTask(t)
			found = true
			break
		}
	}
	if !found {
		return t, fmt.Errorf("%w: task with id=%d does not exist", ErrorStorage, t.ID)
	}

	if err := r.writeAll(rows); err != nil {
		return t, err
	}
	return t, nil
}

func (r *FileRepo) Delete(_ context.Context, id int64) error {
	rows, err := r.readAll()
	if err != nil {
		return err
	}

	kept := rows[:0]
	for _, rec := range rows {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(rows) {
		return ErrorNotFound
	}
	return r.writeAll(kept)
}
