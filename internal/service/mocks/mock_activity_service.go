package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"govdocs/internal/model"
	"govdocs/internal/service"
)

type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) Log(ctx context.Context, actor model.Actor, action, entityType string, entityID *string, details map[string]any) {
	m.Called(ctx, actor, action, entityType, entityID, details)
}

func (m *MockActivityService) List(ctx context.Context, actor model.Actor, limit, offset int) (*service.ActivityListResult, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ActivityListResult), args.Error(1)
}

func (m *MockActivityService) ExportCSV(ctx context.Context, actor model.Actor) (*service.File, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.File), args.Error(1)
}
