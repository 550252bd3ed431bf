package repository

import (
	"context"
	"time"

	"govdocs/internal/model"
)

// FolderRepository persists folders.
type FolderRepository interface {
	Create(ctx context.Context, f *model.Folder) (*model.Folder, error)
	FindByID(ctx context.Context, id string) (*model.Folder, error)
	// List returns folders newest first; an empty ownerID lists every folder.
	List(ctx context.Context, ownerID string) ([]model.Folder, error)
	Delete(ctx context.Context, id string) error
	SetSecret(ctx context.Context, id string, secret bool, at time.Time) (*model.Folder, error)
	Count(ctx context.Context, ownerID string) (int, error)
}
