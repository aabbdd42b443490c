package domain

import "time"

// Task is a user-owned todo item. DueDate and CompletedAt are optional;
// both are always stored in UTC. CompletedAt is set exactly when
// IsCompleted transitions to true and cleared when it transitions back.
type Task struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	DueDate     *time.Time
	IsCompleted bool
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
