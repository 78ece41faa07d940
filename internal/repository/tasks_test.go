package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"todo-api/internal/apperr"
	"todo-api/internal/database"
	"todo-api/internal/models"
)

func newTestRepo(t *testing.T) *TaskRepository {
	t.Helper()
	f, err := os.CreateTemp("", "todo-tasks-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	f.Close()
	path := f.Name()
	t.Cleanup(func() { os.Remove(path) })

	ctx := context.Background()
	db, dialect, err := database.Open(ctx, path, 1)
	if err != nil {
		t.Fatalf("database.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if dialect != database.DialectSQLite {
		t.Fatalf("dialect = %q, want sqlite", dialect)
	}
	if err := database.Migrate(ctx, db, dialect); err != nil {
		t.Fatalf("database.Migrate: %v", err)
	}
	return NewTaskRepository(db)
}

func strPtr(s string) *string { return &s }

func mustInsert(t *testing.T, repo *TaskRepository, task *models.Task) *models.Task {
	t.Helper()
	if task.Status == "" {
		task.Status = models.StatusOpen
	}
	if err := repo.Insert(context.Background(), task); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	// keep created_at strictly increasing so sort tests can assert order
	time.Sleep(2 * time.Millisecond)
	return task
}

func isNotFound(err error) bool {
	var ae *apperr.Error
	return errors.As(err, &ae) && ae.Kind == apperr.KindNotFound
}

func TestInsertAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	task := mustInsert(t, repo, &models.Task{
		UserID:         "alice",
		Title:          "Buy groceries",
		Description:    strPtr("Milk and eggs"),
		Priority:       strPtr("high"),
		Tags:           strPtr("errand,food"),
		DueDate:        &due,
		IsRecurring:    true,
		RecurrenceRule: strPtr("weekly"),
	})
	if task.ID == 0 {
		t.Fatal("Insert did not assign an id")
	}
	if task.UpdatedAt.Before(task.CreatedAt) {
		t.Errorf("updated_at %v before created_at %v", task.UpdatedAt, task.CreatedAt)
	}

	got, err := repo.GetByOwner(ctx, task.ID, "alice")
	if err != nil {
		t.Fatalf("GetByOwner: %v", err)
	}
	if got.Title != "Buy groceries" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Description == nil || *got.Description != "Milk and eggs" {
		t.Errorf("Description = %v", got.Description)
	}
	if got.Status != models.StatusOpen {
		t.Errorf("Status = %q, want open", got.Status)
	}
	if got.Priority == nil || *got.Priority != "high" {
		t.Errorf("Priority = %v", got.Priority)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, due)
	}
	if !got.IsRecurring || got.RecurrenceRule == nil || *got.RecurrenceRule != "weekly" {
		t.Errorf("recurrence = %v / %v", got.IsRecurring, got.RecurrenceRule)
	}
}

func TestGetByOwner_ForeignOwnerIsNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := mustInsert(t, repo, &models.Task{UserID: "alice", Title: "Secret"})

	_, err := repo.GetByOwner(ctx, task.ID, "bob")
	if !isNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestList_OwnerIsolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "Task A"})
	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "Task B"})
	mustInsert(t, repo, &models.Task{UserID: "bob", Title: "Task C"})

	tasks, err := repo.List(ctx, "alice", Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.UserID != "alice" {
			t.Errorf("leaked task for %q", task.UserID)
		}
	}
}

func TestList_FilterConjunction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "open high", Status: "open", Priority: strPtr("high")})
	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "open low", Status: "open", Priority: strPtr("low")})
	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "done high", Status: "done", Priority: strPtr("high")})
	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "done low", Status: "done", Priority: strPtr("low")})

	tasks, err := repo.List(ctx, "alice", Filter{Status: "open", Priority: "high"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "open high" {
		t.Fatalf("tasks = %+v, want only 'open high'", tasks)
	}
}

func TestList_TagSubstring(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "tagged", Tags: strPtr("home,urgent")})
	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "untagged"})

	tasks, err := repo.List(ctx, "alice", Filter{Tag: "urgent"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "tagged" {
		t.Fatalf("tasks = %+v, want only 'tagged'", tasks)
	}
}

func TestList_TagWildcardKeepsLIKEMeaning(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "one", Tags: strPtr("home")})
	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "two", Tags: strPtr("work")})

	// % is not escaped, so a bare wildcard matches every tagged task
	tasks, err := repo.List(ctx, "alice", Filter{Tag: "%"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2", len(tasks))
	}
}

func TestList_FreeText(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "Buy groceries"})
	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "Call plumber", Description: strPtr("about the groceries shelf")})
	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "Walk dog"})

	tasks, err := repo.List(ctx, "alice", Filter{Q: "groceries"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2 (title match + description match)", len(tasks))
	}
}

func TestList_SortDescAndFallback(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "first", Priority: strPtr("a")})
	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "second", Priority: strPtr("c")})
	mustInsert(t, repo, &models.Task{UserID: "alice", Title: "third", Priority: strPtr("b")})

	tasks, err := repo.List(ctx, "alice", Filter{SortBy: "priority", Order: "desc"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"second", "third", "first"}
	for i, title := range want {
		if tasks[i].Title != title {
			t.Fatalf("order = %v, want %v", titles(tasks), want)
		}
	}

	// unrecognized sort field falls back to created_at ascending
	tasks, err = repo.List(ctx, "alice", Filter{SortBy: "no_such_column"})
	if err != nil {
		t.Fatalf("List with bad sort: %v", err)
	}
	want = []string{"first", "second", "third"}
	for i, title := range want {
		if tasks[i].Title != title {
			t.Fatalf("fallback order = %v, want %v", titles(tasks), want)
		}
	}
}

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo := newTestRepo(t)

	tasks, err := repo.List(context.Background(), "nobody", Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if tasks == nil {
		t.Fatal("List returned nil, want empty slice")
	}
	if len(tasks) != 0 {
		t.Fatalf("len = %d, want 0", len(tasks))
	}
}

func TestMutate_PartialUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := mustInsert(t, repo, &models.Task{
		UserID:   "alice",
		Title:    "Original",
		Priority: strPtr("high"),
		Tags:     strPtr("keep-me"),
	})
	before := task.UpdatedAt

	got, err := repo.Mutate(ctx, task.ID, "alice", func(task *models.Task) error {
		task.Title = "Renamed"
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Priority == nil || *got.Priority != "high" {
		t.Errorf("Priority = %v, want untouched high", got.Priority)
	}
	if got.Tags == nil || *got.Tags != "keep-me" {
		t.Errorf("Tags = %v, want untouched", got.Tags)
	}
	if !got.UpdatedAt.After(before) {
		t.Errorf("updated_at not bumped: %v <= %v", got.UpdatedAt, before)
	}

	reread, err := repo.GetByOwner(ctx, task.ID, "alice")
	if err != nil {
		t.Fatalf("GetByOwner: %v", err)
	}
	if reread.Title != "Renamed" {
		t.Errorf("persisted Title = %q", reread.Title)
	}
}

func TestMutate_CallbackErrorRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := mustInsert(t, repo, &models.Task{UserID: "alice", Title: "Stable"})

	wantErr := errors.New("boom")
	_, err := repo.Mutate(ctx, task.ID, "alice", func(task *models.Task) error {
		task.Title = "should not persist"
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	got, err := repo.GetByOwner(ctx, task.ID, "alice")
	if err != nil {
		t.Fatalf("GetByOwner: %v", err)
	}
	if got.Title != "Stable" {
		t.Errorf("Title = %q, want unchanged", got.Title)
	}
}

func TestMutate_ForeignOwnerIsNotFound(t *testing.T) {
	repo := newTestRepo(t)

	task := mustInsert(t, repo, &models.Task{UserID: "alice", Title: "Mine"})

	_, err := repo.Mutate(context.Background(), task.ID, "bob", func(*models.Task) error { return nil })
	if !isNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := mustInsert(t, repo, &models.Task{UserID: "alice", Title: "Ephemeral"})

	if err := repo.Delete(ctx, task.ID, "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err := repo.GetByOwner(ctx, task.ID, "alice")
	if !isNotFound(err) {
		t.Fatalf("err after delete = %v, want not-found", err)
	}
	if err := repo.Delete(ctx, task.ID, "alice"); !isNotFound(err) {
		t.Fatalf("second delete err = %v, want not-found", err)
	}
}

func TestDelete_ForeignOwnerIsNotFound(t *testing.T) {
	repo := newTestRepo(t)

	task := mustInsert(t, repo, &models.Task{UserID: "alice", Title: "Mine"})

	if err := repo.Delete(context.Background(), task.ID, "bob"); !isNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
	if _, err := repo.GetByOwner(context.Background(), task.ID, "alice"); err != nil {
		t.Fatalf("task should survive foreign delete: %v", err)
	}
}
