package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"taskly/internal/domain"
)

type seedTask struct {
	name        string
	description string
	dueInDays   int
}

// Seed populates demo users and tasks for local development. It is a no-op
// when the first demo user already exists.
func Seed(ctx context.Context, auth AuthService, tasks TaskService, logger *logrus.Logger) error {
	users := []struct {
		username string
		email    string
		tasks    []seedTask
	}{
		{
			username: "john_doe",
			email:    "john@example.com",
			tasks: []seedTask{
				{"Complete API Documentation", "Write comprehensive API documentation", 7},
				{"Setup CI/CD Pipeline", "Configure automated deployment pipeline", 14},
				{"Code Review", "Review pull requests from team", 2},
			},
		},
		{
			username: "jane_smith",
			email:    "jane@example.com",
			tasks: []seedTask{
				{"Design Database Schema", "Create ERD for new features", 5},
				{"Write Unit Tests", "Add test coverage for core functionality", 10},
			},
		},
	}

	for _, u := range users {
		result, err := auth.Register(ctx, u.username, u.email, "password123")
		if err != nil {
			var dup *domain.DuplicateRegistrationError
			if errors.As(err, &dup) {
				logger.Debugf("seed: user %s already present, skipping", u.username)
				return nil
			}
			return err
		}

		for _, st := range u.tasks {
			due := time.Now().UTC().AddDate(0, 0, st.dueInDays)
			if _, err := tasks.Create(ctx, result.User.ID, st.name, st.description, &due); err != nil {
				return err
			}
		}
		logger.Infof("seeded demo user %s with %d tasks", u.username, len(u.tasks))
	}

	return nil
}
