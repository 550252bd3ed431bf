package repository

import (
	"context"

	"govdocs/internal/model"
)

// ActivityRepository is the append-only audit store.
type ActivityRepository interface {
	Create(ctx context.Context, l *model.ActivityLog) error
	// List returns records newest first joined with the actor's profile. An empty userID lists
	// every record.
	List(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.ActivityLogView], error)
}
