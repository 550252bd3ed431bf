package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, l *model.ActivityLog) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockActivityRepository) List(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.ActivityLogView], error) {
	args := m.Called(ctx, userID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ActivityLogView]), args.Error(1)
}
