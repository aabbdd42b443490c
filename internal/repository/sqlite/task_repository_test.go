package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"taskly/internal/repository"
)

func TestTaskRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, users, "alice", "alice@x.com")

	due := time.Date(2025, 1, 1, 5, 0, 0, 0, time.UTC)
	created := createTestTask(t, tasks, owner.ID, "Buy milk", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), &due)

	got, err := tasks.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Buy milk" || got.OwnerID != owner.ID {
		t.Fatalf("got %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("dueDate=%v want %v", got.DueDate, due)
	}
	if got.IsCompleted || got.CompletedAt != nil {
		t.Fatalf("new task must be incomplete: %+v", got)
	}

	if _, err := tasks.GetByID(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskRepository_UpdateBumpsUpdatedAt(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, users, "alice", "alice@x.com")
	createdAt := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	task := createTestTask(t, tasks, owner.ID, "Buy milk", createdAt, nil)

	later := createdAt.Add(2 * time.Hour)
	task.Name = "Buy oat milk"
	task.Description = "from the corner shop"
	if err := tasks.Update(ctx, task, later); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := tasks.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Buy oat milk" || got.Description != "from the corner shop" {
		t.Fatalf("got %+v", got)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Fatalf("updatedAt=%v want %v", got.UpdatedAt, later)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("createdAt changed: %v", got.CreatedAt)
	}
}

func TestTaskRepository_UpdateMissing(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	tasks := NewTaskRepository(db)

	owner := createTestUser(t, users, "alice", "alice@x.com")
	task := createTestTask(t, tasks, owner.ID, "Buy milk", time.Now().UTC(), nil)
	task.ID = "missing"

	err := tasks.Update(context.Background(), task, time.Now().UTC())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskRepository_ToggleIsInvolution(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, users, "alice", "alice@x.com")
	task := createTestTask(t, tasks, owner.ID, "Buy milk", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), nil)

	first := time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)
	toggled, err := tasks.ToggleComplete(ctx, task.ID, first)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsCompleted {
		t.Fatalf("expected completed after first toggle")
	}
	if toggled.CompletedAt == nil || !toggled.CompletedAt.Equal(first) {
		t.Fatalf("completedAt=%v want %v", toggled.CompletedAt, first)
	}
	if !toggled.UpdatedAt.Equal(first) {
		t.Fatalf("updatedAt=%v want %v", toggled.UpdatedAt, first)
	}

	second := first.Add(time.Hour)
	toggled, err = tasks.ToggleComplete(ctx, task.ID, second)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if toggled.IsCompleted {
		t.Fatalf("expected incomplete after second toggle")
	}
	if toggled.CompletedAt != nil {
		t.Fatalf("completedAt must clear, got %v", toggled.CompletedAt)
	}

	if _, err := tasks.ToggleComplete(ctx, "missing", second); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskRepository_DeleteTwice(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, users, "alice", "alice@x.com")
	task := createTestTask(t, tasks, owner.ID, "Buy milk", time.Now().UTC(), nil)

	if err := tasks.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := tasks.Delete(ctx, task.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestTaskRepository_ListFiltersAndOrder(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, users, "alice", "alice@x.com")
	bob := createTestUser(t, users, "bob", "bob@x.com")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	day := func(n int) *time.Time {
		d := base.AddDate(0, 0, n)
		return &d
	}

	t1 := createTestTask(t, tasks, alice.ID, "first", base.Add(1*time.Minute), day(1))
	t2 := createTestTask(t, tasks, alice.ID, "second", base.Add(2*time.Minute), day(2))
	t3 := createTestTask(t, tasks, alice.ID, "third", base.Add(3*time.Minute), nil)
	createTestTask(t, tasks, bob.ID, "bobs", base.Add(4*time.Minute), day(1))

	if _, err := tasks.ToggleComplete(ctx, t2.ID, base.Add(time.Hour)); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	// owner scope + newest-first order
	all, err := tasks.List(ctx, repository.TaskFilter{OwnerID: alice.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len=%d want 3", len(all))
	}
	if all[0].ID != t3.ID || all[1].ID != t2.ID || all[2].ID != t1.ID {
		t.Fatalf("unexpected order: %s %s %s", all[0].Name, all[1].Name, all[2].Name)
	}

	// completed filter
	completed := true
	done, err := tasks.List(ctx, repository.TaskFilter{OwnerID: alice.ID, Completed: &completed})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(done) != 1 || done[0].ID != t2.ID {
		t.Fatalf("completed filter got %d items", len(done))
	}

	// dueOnOrBefore excludes tasks with no due date
	dueBy, err := tasks.List(ctx, repository.TaskFilter{OwnerID: alice.ID, DueOnOrBefore: day(1)})
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(dueBy) != 1 || dueBy[0].ID != t1.ID {
		t.Fatalf("due filter got %d items", len(dueBy))
	}
}

func TestTaskRepository_Pagination(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, users, "alice", "alice@x.com")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		createTestTask(t, tasks, owner.ID, fmt.Sprintf("task-%02d", i), base.Add(time.Duration(i)*time.Minute), nil)
	}

	filter := repository.TaskFilter{OwnerID: owner.ID, Skip: 20, Take: 20}

	total, err := tasks.Count(ctx, filter)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 25 {
		t.Fatalf("total=%d want 25", total)
	}

	page, err := tasks.List(ctx, filter)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 5 {
		t.Fatalf("page len=%d want 5", len(page))
	}
	// newest first: page 2 holds the 5 oldest tasks
	if page[0].Name != "task-04" || page[4].Name != "task-00" {
		t.Fatalf("unexpected page contents: %s .. %s", page[0].Name, page[4].Name)
	}
}
