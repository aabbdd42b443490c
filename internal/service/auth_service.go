package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"taskly/internal/auth"
	"taskly/internal/domain"
	"taskly/internal/repository"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// AuthResult is returned by both registration and login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService orchestrates registration and login.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*AuthResult, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*AuthResult, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer, now func() time.Time) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		now:    now,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	usernameTaken, err := s.users.UsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	emailTaken, err := s.users.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if usernameTaken || emailTaken {
		var fields []string
		if usernameTaken {
			fields = append(fields, "username")
		}
		if emailTaken {
			fields = append(fields, "email")
		}
		return nil, &domain.DuplicateRegistrationError{Fields: fields}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	nowUTC := s.now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    nowUTC,
		UpdatedAt:    nowUTC,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The uniqueness checks above race with concurrent registrations;
		// the unique indexes are the backstop. Report the loser precisely.
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, &domain.DuplicateRegistrationError{Fields: dup.Fields}
		}
		return nil, err
	}

	return s.issue(user, nowUTC)
}

func (s *authService) Login(ctx context.Context, usernameOrEmail, password string) (*AuthResult, error) {
	term := strings.TrimSpace(usernameOrEmail)
	if term == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, term)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user, s.now().UTC())
}

func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *authService) issue(user *domain.User, nowUTC time.Time) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user, nowUTC)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      sanitizeUser(user),
	}, nil
}

func validateRegistration(username, email, password string) error {
	fields := map[string]string{}

	if len(username) < 3 || len(username) > 50 {
		fields["username"] = "must be between 3 and 50 characters"
	} else if !usernamePattern.MatchString(username) {
		fields["username"] = "can only contain letters, numbers, underscores, and hyphens"
	}

	if email == "" || !strings.Contains(email, "@") || len(email) > 256 {
		fields["email"] = "must be a valid email address of at most 256 characters"
	}

	if len(password) < 6 {
		fields["password"] = "must be at least 6 characters"
	} else if len(password) > 100 {
		fields["password"] = "must be at most 100 characters"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
