package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"govdocs/internal/model"
	"govdocs/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, in service.SignUpInput) (*model.UserWithRoles, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserWithRoles), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*service.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, actor model.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, rawToken string) (model.Actor, error) {
	args := m.Called(ctx, rawToken)
	return args.Get(0).(model.Actor), args.Error(1)
}

func (m *MockAuthService) Session(ctx context.Context, actor model.Actor) (*model.UserWithRoles, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserWithRoles), args.Error(1)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return m.Called(ctx, resetToken, newPassword).Error(0)
}

func (m *MockAuthService) Verify(ctx context.Context, verifyToken string) error {
	return m.Called(ctx, verifyToken).Error(0)
}

func (m *MockAuthService) ResendVerification(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
