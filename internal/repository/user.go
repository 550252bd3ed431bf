package repository

import (
	"context"
	"time"

	"govdocs/internal/model"
)

// UserRepository persists profiles and their role labels.
type UserRepository interface {
	// Create inserts the profile and its roles atomically. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, p *model.Profile, roles []string) (*model.UserWithRoles, error)
	FindByID(ctx context.Context, id string) (*model.UserWithRoles, error)
	FindByEmail(ctx context.Context, email string) (*model.UserWithRoles, error)
	List(ctx context.Context) ([]model.UserWithRoles, error)
	UpdateProfile(ctx context.Context, id, fullName string, at time.Time) (*model.Profile, error)
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
	MarkVerified(ctx context.Context, id string, at time.Time) error
}
