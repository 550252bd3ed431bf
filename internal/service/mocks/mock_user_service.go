package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"govdocs/internal/model"
	"govdocs/internal/service"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, actor model.Actor) ([]model.UserWithRoles, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserWithRoles), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, actor model.Actor) (*model.UserWithRoles, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserWithRoles), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, actor model.Actor, fullName string) (*model.Profile, error) {
	args := m.Called(ctx, actor, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, actor model.Actor, current, next string) error {
	return m.Called(ctx, actor, current, next).Error(0)
}

type MockDepartmentService struct {
	mock.Mock
}

func (m *MockDepartmentService) List(ctx context.Context) ([]model.Department, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Department), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Stats(ctx context.Context, actor model.Actor) (*service.DashboardStats, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DashboardStats), args.Error(1)
}
