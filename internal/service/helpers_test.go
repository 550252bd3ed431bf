package service

import (
	"bytes"
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"govdocs/internal/logging"
	"govdocs/internal/model"
	repoMocks "govdocs/internal/repository/mocks"
)

var (
	fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	clerk    = model.Actor{UserID: "user-1", Email: "clerk@example.gov", Roles: []string{}}
	other    = model.Actor{UserID: "user-2", Email: "other@example.gov", Roles: []string{}}
	admin    = model.Actor{UserID: "admin-1", Email: "admin@example.gov", Roles: []string{model.RoleAdmin}}
)

// newActivity returns a real activity service whose repository accepts any record.
func newActivity() (ActivityService, *repoMocks.MockActivityRepository) {
	repo := new(repoMocks.MockActivityRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewActivityService(repo, logging.New(&bytes.Buffer{}, time.UTC), time.UTC), repo
}

func fixedClock() time.Time { return fixedNow }

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *mockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenStore) PutOneTime(ctx context.Context, purpose, token, subject string, ttl time.Duration) error {
	return m.Called(ctx, purpose, token, subject, ttl).Error(0)
}

func (m *mockTokenStore) TakeOneTime(ctx context.Context, purpose, token string) (string, error) {
	args := m.Called(ctx, purpose, token)
	return args.String(0), args.Error(1)
}

type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Verify(plain, encodedHash string) (bool, error) {
	args := m.Called(plain, encodedHash)
	return args.Bool(0), args.Error(1)
}
