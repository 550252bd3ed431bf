package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"govdocs/internal/model"
	"govdocs/internal/service"
)

type MockFolderService struct {
	mock.Mock
}

func (m *MockFolderService) List(ctx context.Context, actor model.Actor, includeShared bool) ([]service.FolderView, error) {
	args := m.Called(ctx, actor, includeShared)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.FolderView), args.Error(1)
}

func (m *MockFolderService) Create(ctx context.Context, actor model.Actor, name string, secret bool) (*model.Folder, error) {
	args := m.Called(ctx, actor, name, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Delete(ctx context.Context, actor model.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockFolderService) SetSecret(ctx context.Context, actor model.Actor, id string, secret bool) (*model.Folder, error) {
	args := m.Called(ctx, actor, id, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Contents(ctx context.Context, actor model.Actor, id string, limit, offset int) (*service.FolderContents, error) {
	args := m.Called(ctx, actor, id, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FolderContents), args.Error(1)
}

func (m *MockFolderService) CanRead(ctx context.Context, actor model.Actor, f *model.Folder) (bool, error) {
	args := m.Called(ctx, actor, f)
	return args.Bool(0), args.Error(1)
}
