package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskly/internal/domain"
	"taskly/internal/repository"
)

const createTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL REFERENCES users(id),
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	due_date DATETIME NULL,
	is_completed INTEGER NOT NULL DEFAULT 0,
	completed_at DATETIME NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createTasksOwnerIndex = `
CREATE INDEX IF NOT EXISTS idx_tasks_owner_created ON tasks(owner_id, created_at);
`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTasksTable); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createTasksOwnerIndex); err != nil {
		return fmt.Errorf("create tasks index: %w", err)
	}
	return nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO tasks (id, owner_id, name, description, due_date, is_completed, completed_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.OwnerID,
		task.Name,
		task.Description,
		nullTime(task.DueDate),
		task.IsCompleted,
		nullTime(task.CompletedAt),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, name, description, due_date, is_completed, completed_at, created_at, updated_at
FROM tasks
WHERE id = ?`,
		id,
	)
	return scanTask(row)
}

// Update persists name, description and due date. Every successful update
// bumps updated_at to nowUTC.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task, nowUTC time.Time) error {
	task.UpdatedAt = nowUTC

	res, err := r.db.ExecContext(ctx, `
UPDATE tasks
SET name=?, description=?, due_date=?, updated_at=?
WHERE id=?`,
		task.Name,
		task.Description,
		nullTime(task.DueDate),
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("task update rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ToggleComplete flips is_completed inside a transaction. completed_at is set
// to nowUTC on the transition to completed and cleared on the way back.
func (r *TaskRepository) ToggleComplete(ctx context.Context, id string, nowUTC time.Time) (*domain.Task, error) {
	nowUTC = nowUTC.UTC()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	task, err := scanTask(tx.QueryRowContext(ctx, `
SELECT id, owner_id, name, description, due_date, is_completed, completed_at, created_at, updated_at
FROM tasks
WHERE id = ?`,
		id,
	))
	if err != nil {
		return nil, err
	}

	task.IsCompleted = !task.IsCompleted
	if task.IsCompleted {
		task.CompletedAt = &nowUTC
	} else {
		task.CompletedAt = nil
	}
	task.UpdatedAt = nowUTC

	if _, err := tx.ExecContext(ctx, `
UPDATE tasks
SET is_completed=?, completed_at=?, updated_at=?
WHERE id=?`,
		task.IsCompleted,
		nullTime(task.CompletedAt),
		task.UpdatedAt,
		task.ID,
	); err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task toggle: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("task delete rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	where, args := filterClause(filter)
	query := `
SELECT id, owner_id, name, description, due_date, is_completed, completed_at, created_at, updated_at
FROM tasks
` + where + `
ORDER BY created_at DESC`
	if filter.Take > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Take, filter.Skip)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int, error) {
	where, args := filterClause(filter.WithoutPaging())
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

func filterClause(filter repository.TaskFilter) (string, []any) {
	conds := []string{"owner_id = ?"}
	args := []any{filter.OwnerID}

	if filter.Completed != nil {
		conds = append(conds, "is_completed = ?")
		args = append(args, *filter.Completed)
	}
	if filter.DueOnOrBefore != nil {
		conds = append(conds, "due_date IS NOT NULL AND due_date <= ?")
		args = append(args, filter.DueOnOrBefore.UTC())
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func scanTask(row interface {
	Scan(dest ...any) error
}) (*domain.Task, error) {
	var (
		task        domain.Task
		dueDate     sql.NullTime
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Name,
		&task.Description,
		&dueDate,
		&task.IsCompleted,
		&completedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if dueDate.Valid {
		v := dueDate.Time.UTC()
		task.DueDate = &v
	}
	if completedAt.Valid {
		v := completedAt.Time.UTC()
		task.CompletedAt = &v
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}
