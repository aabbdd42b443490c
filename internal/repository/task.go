package repository

import (
	"context"
	"time"

	"taskly/internal/domain"
)

// TaskFilter bundles the predicates, implicit owner scope and paging for one
// list query. OwnerID is always required; a zero Take means "no paging".
// Result order is fixed: creation time descending.
type TaskFilter struct {
	OwnerID       string
	Completed     *bool
	DueOnOrBefore *time.Time
	Skip          int
	Take          int
}

// WithoutPaging returns a copy of the filter with paging stripped, used for
// the companion count query of a list request.
func (f TaskFilter) WithoutPaging() TaskFilter {
	f.Skip = 0
	f.Take = 0
	return f
}

// TaskRepository exposes persistence operations for Task aggregates.
// Ownership is not enforced here; the service layer scopes every call.
type TaskRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task, nowUTC time.Time) error
	ToggleComplete(ctx context.Context, id string, nowUTC time.Time) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int, error)
}
