package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// UserService serves the admin user directory and the caller's own settings.
type UserService interface {
	// List returns every user with roles. Admin only.
	List(ctx context.Context, actor model.Actor) ([]model.UserWithRoles, error)

	GetProfile(ctx context.Context, actor model.Actor) (*model.UserWithRoles, error)
	UpdateProfile(ctx context.Context, actor model.Actor, fullName string) (*model.Profile, error)
	// ChangePassword replaces the password after checking the current one.
	ChangePassword(ctx context.Context, actor model.Actor, current, next string) error
}

type userService struct {
	users     repository.UserRepository
	hasher    PasswordHasher
	minLength int
	now       func() time.Time
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher, minPasswordChars int) UserService {
	return &userService{users: users, hasher: hasher, minLength: minPasswordChars, now: time.Now}
}

func (s *userService) List(ctx context.Context, actor model.Actor) ([]model.UserWithRoles, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.users.List(ctx)
}

func (s *userService) GetProfile(ctx context.Context, actor model.Actor) (*model.UserWithRoles, error) {
	u, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("profile %w", ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor model.Actor, fullName string) (*model.Profile, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, ErrNameRequired
	}
	p, err := s.users.UpdateProfile(ctx, actor.UserID, fullName, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("profile %w", ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *userService) ChangePassword(ctx context.Context, actor model.Actor, current, next string) error {
	if len([]rune(next)) < s.minLength {
		return fmt.Errorf("%w: at least %d characters", ErrWeakPassword, s.minLength)
	}
	u, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthenticated
		}
		return err
	}
	ok, err := s.hasher.Verify(current, u.PasswordHash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, actor.UserID, hash, s.now().UTC())
}

// DepartmentService lists department reference data.
type DepartmentService interface {
	List(ctx context.Context) ([]model.Department, error)
}

type departmentService struct {
	repo repository.DepartmentRepository
}

func NewDepartmentService(repo repository.DepartmentRepository) DepartmentService {
	return &departmentService{repo: repo}
}

func (s *departmentService) List(ctx context.Context) ([]model.Department, error) {
	return s.repo.List(ctx)
}
