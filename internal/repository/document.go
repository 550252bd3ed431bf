package repository

import (
	"context"
	"time"

	"govdocs/internal/model"
)

// DocumentFilter narrows document listings. Zero values mean "no restriction".
type DocumentFilter struct {
	// OwnerID restricts rows to one owner. Empty for admins.
	OwnerID string
	// FolderID restricts rows to one folder.
	FolderID string
	// Query matches title, reference number, tags and folder name case-insensitively.
	Query string
}

// DocumentRepository defines data access for document metadata using SQL queries only.
type DocumentRepository interface {
	// Create inserts a document row. ID and timestamps are supplied by the caller, which lets a
	// previously deleted row be restored unchanged.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns ErrNotFound when the row does not exist.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a page of documents newest first together with the total matching count.
	List(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// Delete removes a row and returns ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id string) error

	UpdateStatus(ctx context.Context, id string, status model.DocumentStatus, notes *string, at time.Time) (*model.Document, error)

	// Count returns the number of documents owned by ownerID, or all documents when empty.
	Count(ctx context.Context, ownerID string) (int, error)
}
