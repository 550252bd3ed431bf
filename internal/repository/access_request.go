package repository

import (
	"context"
	"time"

	"govdocs/internal/model"
)

// ReviewUpdate is the outcome written when an admin decides on a pending request.
type ReviewUpdate struct {
	Status     model.AccessRequestStatus
	ReviewedBy string
	ReviewedAt time.Time
	// ExpiresAt is set for approvals and nil for denials.
	ExpiresAt *time.Time
}

// AccessRequestRepository persists access requests.
type AccessRequestRepository interface {
	Create(ctx context.Context, r *model.AccessRequest) (*model.AccessRequest, error)
	FindByID(ctx context.Context, id string) (*model.AccessRequest, error)

	// Review applies u only while the request is still pending. It returns ErrNotFound when no
	// pending row with that ID exists.
	Review(ctx context.Context, id string, u ReviewUpdate) (*model.AccessRequest, error)

	// List returns requests newest first joined with requester and folder names. An empty
	// userID lists every request.
	List(ctx context.Context, userID string) ([]model.AccessRequestView, error)

	// HasActiveGrant reports whether userID holds an approved request for folderID that has not
	// expired at now.
	HasActiveGrant(ctx context.Context, userID, folderID string, now time.Time) (bool, error)

	// CountPending counts pending requests submitted by userID, or all pending requests when empty.
	CountPending(ctx context.Context, userID string) (int, error)
}
