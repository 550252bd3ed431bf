package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"govdocs/internal/notify"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n notify.Notice) error {
	return m.Called(ctx, n).Error(0)
}
