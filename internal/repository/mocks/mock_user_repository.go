package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"govdocs/internal/model"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, p *model.Profile, roles []string) (*model.UserWithRoles, error) {
	args := m.Called(ctx, p, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserWithRoles), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.UserWithRoles, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserWithRoles), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.UserWithRoles, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserWithRoles), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.UserWithRoles, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserWithRoles), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id, fullName string, at time.Time) (*model.Profile, error) {
	args := m.Called(ctx, id, fullName, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	return m.Called(ctx, id, hash, at).Error(0)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
