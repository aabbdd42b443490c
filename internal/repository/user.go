package repository

import (
	"context"

	"taskly/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// Lookups by username/email are trimmed, case-insensitive exact matches.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, term string) (*domain.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}
