package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/tasktrack/internal/model"
)

func newTestRepo(t *testing.T) *FileRepo {
	t.Helper()
	return NewFileRepo(filepath.Join(t.TempDir(), "tasks.json"))
}

func writeStorageFile(t *testing.T, r *FileRepo, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(r.path, []byte(content), 0o644))
}

func TestFileRepo_List_MissingFile(t *testing.T) {
	r := newTestRepo(t)

	tasks, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestFileRepo_List_EmptyFile(t *testing.T) {
	r := newTestRepo(t)
	writeStorageFile(t, r, "  \n")

	tasks, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestFileRepo_List_MalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json at all", content: "not a json array"},
		{name: "json string at top level", content: `"not a json array"`},
		{name: "json object at top level", content: `{"id": 1}`},
		{name: "truncated array", content: `[{"id": 1,`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRepo(t)
			writeStorageFile(t, r, tt.content)

			_, err := r.List(context.Background())
			assert.ErrorIs(t, err, ErrorStorage)
		})
	}
}

func TestFileRepo_Decode_Defaults(t *testing.T) {
	r := newTestRepo(t)
	// Запись без status и description - документированные значения по умолчанию
	writeStorageFile(t, r, `[
	  {
	    "id": 7,
	    "title": "Legacy task",
	    "created_at": "2024-01-02T10:00:00Z",
	    "updated_at": "2024-01-02T10:00:00Z"
	  }
	]`)

	tasks, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, model.StatusTodo, tasks[0].Status)
	assert.Equal(t, "", tasks[0].Description)
}

func TestFileRepo_Decode_UnknownStatus(t *testing.T) {
	r := newTestRepo(t)
	writeStorageFile(t, r, `[
	  {
	    "id": 1,
	    "title": "Bad status",
	    "status": "archived",
	    "created_at": "2024-01-02T10:00:00Z",
	    "updated_at": "2024-01-02T10:00:00Z"
	  }
	]`)

	_, err := r.List(context.Background())
	assert.ErrorIs(t, err, ErrorStorage)
}

func TestFileRepo_Decode_MissingRequiredFields(t *testing.T) {
	r := newTestRepo(t)
	writeStorageFile(t, r, `[{"id": 1, "status": "todo"}]`)

	_, err := r.List(context.Background())
	assert.ErrorIs(t, err, ErrorStorage)
}

func TestFileRepo_Add_AssignsIncreasingIDs(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for i, title := range []string{"first", "second", "third"} {
		created, err := r.Add(ctx, model.Task{Title: title, Status: model.StatusTodo})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	}
}

func TestFileRepo_Add_NextIDAfterGap(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	// id = 1 + максимальный существующий, дыры не переиспользуются
	writeStorageFile(t, r, `[
	  {"id": 9, "title": "Old", "status": "done",
	   "created_at": "2024-01-02T10:00:00Z", "updated_at": "2024-01-02T10:00:00Z"}
	]`)

	created, err := r.Add(ctx, model.Task{Title: "New", Status: model.StatusTodo})
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
}

func TestFileRepo_RoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.Add(ctx, model.Task{Title: "Write spec", Description: "with details", Status: model.StatusTodo})
	require.NoError(t, err)
	second, err := r.Add(ctx, model.Task{Title: "Review", Status: model.StatusTodo})
	require.NoError(t, err)

	tasks, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first, tasks[0])
	assert.Equal(t, second, tasks[1])

	// Повторное чтение без мутаций дает тот же результат
	again, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks, again)
}

func TestFileRepo_Get(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Add(ctx, model.Task{Title: "Find me", Status: model.StatusTodo})
	require.NoError(t, err)

	got, err := r.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = r.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrorNotFound)
}

func TestFileRepo_Get_FirstMatchWins(t *testing.T) {
	r := newTestRepo(t)
	// Дубликаты id возможны только в отредактированном вручную файле
	writeStorageFile(t, r, `[
	  {"id": 1, "title": "First", "status": "todo",
	   "created_at": "2024-01-02T10:00:00Z", "updated_at": "2024-01-02T10:00:00Z"},
	  {"id": 1, "title": "Second", "status": "done",
	   "created_at": "2024-01-02T10:00:00Z", "updated_at": "2024-01-02T10:00:00Z"}
	]`)

	got, err := r.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
}

func TestFileRepo_Update(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.Add(ctx, model.Task{Title: "First", Status: model.StatusTodo})
	require.NoError(t, err)
	second, err := r.Add(ctx, model.Task{Title: "Second", Status: model.StatusTodo})
	require.NoError(t, err)

	first.Title = "First edited"
	updated, err := r.Update(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "First edited", updated.Title)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	// Позиция записи сохраняется
	tasks, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "First edited", tasks[0].Title)
	assert.Equal(t, second.Title, tasks[1].Title)
}

func TestFileRepo_Update_WithoutID(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.Update(context.Background(), model.Task{Title: "No id", Status: model.StatusTodo})
	assert.ErrorIs(t, err, ErrorInvalid)
}

func TestFileRepo_Update_VanishedTarget(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.Update(context.Background(), model.Task{ID: 42, Title: "Gone", Status: model.StatusTodo})
	assert.ErrorIs(t, err, ErrorStorage)
}

func TestFileRepo_Delete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Add(ctx, model.Task{Title: "Doomed", Status: model.StatusTodo})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))

	tasks, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// Повторное удаление того же id
	assert.ErrorIs(t, r.Delete(ctx, created.ID), ErrorNotFound)
}

func TestFileRepo_Write_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.json")
	r := NewFileRepo(path)

	_, err := r.Add(context.Background(), model.Task{Title: "Deep", Status: model.StatusTodo})
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
