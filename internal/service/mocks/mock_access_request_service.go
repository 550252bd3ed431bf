package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"govdocs/internal/model"
	"govdocs/internal/service"
)

type MockAccessRequestService struct {
	mock.Mock
}

func (m *MockAccessRequestService) Submit(ctx context.Context, actor model.Actor, folderID, reason string) (*model.AccessRequest, error) {
	args := m.Called(ctx, actor, folderID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestService) Review(ctx context.Context, actor model.Actor, requestID string, decision service.ReviewDecision) (*model.AccessRequest, error) {
	args := m.Called(ctx, actor, requestID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestService) ListAll(ctx context.Context, actor model.Actor) ([]model.AccessRequestView, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessRequestView), args.Error(1)
}

func (m *MockAccessRequestService) ListMine(ctx context.Context, actor model.Actor) ([]model.AccessRequestView, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessRequestView), args.Error(1)
}

func (m *MockAccessRequestService) HasActiveGrant(ctx context.Context, userID, folderID string) (bool, error) {
	args := m.Called(ctx, userID, folderID)
	return args.Bool(0), args.Error(1)
}
