package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"taskly/internal/domain"
	"taskly/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := NewUserRepository(db).Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := NewTaskRepository(db).Init(ctx); err != nil {
		t.Fatalf("init tasks: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, users repository.UserRepository, username, email string) *domain.User {
	t.Helper()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "salt.key",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createTestTask(t *testing.T, tasks repository.TaskRepository, ownerID, name string, createdAt time.Time, dueDate *time.Time) *domain.Task {
	t.Helper()

	task := &domain.Task{
		OwnerID:   ownerID,
		Name:      name,
		DueDate:   dueDate,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("create task %s: %v", name, err)
	}
	return task
}
