package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

type MockAccessRequestRepository struct {
	mock.Mock
}

func (m *MockAccessRequestRepository) Create(ctx context.Context, r *model.AccessRequest) (*model.AccessRequest, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestRepository) FindByID(ctx context.Context, id string) (*model.AccessRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestRepository) Review(ctx context.Context, id string, u repository.ReviewUpdate) (*model.AccessRequest, error) {
	args := m.Called(ctx, id, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestRepository) List(ctx context.Context, userID string) ([]model.AccessRequestView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessRequestView), args.Error(1)
}

func (m *MockAccessRequestRepository) HasActiveGrant(ctx context.Context, userID, folderID string, now time.Time) (bool, error) {
	args := m.Called(ctx, userID, folderID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRequestRepository) CountPending(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
