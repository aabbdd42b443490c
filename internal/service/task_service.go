package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskly/internal/domain"
	"taskly/internal/repository"
)

const (
	maxNameLen        = 120
	maxDescriptionLen = 1000
)

// PagedTasks is one page of a task listing plus its pagination envelope.
type PagedTasks struct {
	Items           []domain.Task
	TotalCount      int
	Page            int
	PageSize        int
	TotalPages      int
	HasNextPage     bool
	HasPreviousPage bool
}

// TaskService coordinates owner-scoped task operations. Every call takes the
// caller's user id explicitly; it is never read from ambient state.
type TaskService interface {
	Create(ctx context.Context, ownerID, name, description string, dueDate *time.Time) (*domain.Task, error)
	List(ctx context.Context, ownerID string, completed *bool, dueOnOrBefore *time.Time, page, pageSize int) (*PagedTasks, error)
	Update(ctx context.Context, callerID, taskID, name, description string, dueDate *time.Time) (*domain.Task, error)
	Toggle(ctx context.Context, callerID, taskID string) (*domain.Task, error)
	Delete(ctx context.Context, callerID, taskID string) error
}

type taskService struct {
	tasks repository.TaskRepository
	now   func() time.Time
}

func NewTaskService(tasks repository.TaskRepository, now func() time.Time) TaskService {
	return &taskService{
		tasks: tasks,
		now:   now,
	}
}

func (s *taskService) Create(ctx context.Context, ownerID, name, description string, dueDate *time.Time) (*domain.Task, error) {
	name, description, err := validateTaskFields(name, description)
	if err != nil {
		return nil, err
	}

	nowUTC := s.now().UTC()
	task := &domain.Task{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		DueDate:     normalizeDueDate(dueDate),
		CreatedAt:   nowUTC,
		UpdatedAt:   nowUTC,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, ownerID string, completed *bool, dueOnOrBefore *time.Time, page, pageSize int) (*PagedTasks, error) {
	filter := repository.TaskFilter{
		OwnerID:       ownerID,
		Completed:     completed,
		DueOnOrBefore: normalizeDueDate(dueOnOrBefore),
		Skip:          (page - 1) * pageSize,
		Take:          pageSize,
	}

	totalCount, err := s.tasks.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (totalCount + pageSize - 1) / pageSize
	return &PagedTasks{
		Items:           items,
		TotalCount:      totalCount,
		Page:            page,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}, nil
}

func (s *taskService) Update(ctx context.Context, callerID, taskID, name, description string, dueDate *time.Time) (*domain.Task, error) {
	name, description, err := validateTaskFields(name, description)
	if err != nil {
		return nil, err
	}

	task, err := s.loadOwned(ctx, callerID, taskID)
	if err != nil {
		return nil, err
	}

	task.Name = name
	task.Description = description
	task.DueDate = normalizeDueDate(dueDate)

	if err := s.tasks.Update(ctx, task, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) Toggle(ctx context.Context, callerID, taskID string) (*domain.Task, error) {
	if _, err := s.loadOwned(ctx, callerID, taskID); err != nil {
		return nil, err
	}

	task, err := s.tasks.ToggleComplete(ctx, taskID, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, callerID, taskID string) error {
	if _, err := s.loadOwned(ctx, callerID, taskID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// loadOwned is the single authorization guard shared by update, toggle and
// delete. A task owned by someone else reports not-found, so non-owners
// cannot confirm that an id exists.
func (s *taskService) loadOwned(ctx context.Context, callerID, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if task.OwnerID != callerID {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

func validateTaskFields(name, description string) (string, string, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "must not be empty"
	} else if len(name) > maxNameLen {
		fields["name"] = "must be at most 120 characters"
	}
	if len(description) > maxDescriptionLen {
		fields["description"] = "must be at most 1000 characters"
	}

	if len(fields) > 0 {
		return "", "", &domain.ValidationError{Fields: fields}
	}
	return name, description, nil
}

// normalizeDueDate converts an optional timestamp to UTC so stored values
// always compare cleanly against UTC "now".
func normalizeDueDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
