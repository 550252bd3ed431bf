package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"govdocs/internal/logging"
	"govdocs/internal/model"
	"govdocs/internal/notify"
	"govdocs/internal/repository"
)

// AccessGrantWindow is how long an approved request grants access, counted from the review.
const AccessGrantWindow = 2 * time.Hour

// ReviewDecision is an admin's verdict on a pending request.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionDeny    ReviewDecision = "deny"
)

// AccessRequestService runs the pending → approved | denied workflow for secret folders.
type AccessRequestService interface {
	// Submit files a pending request. The reason is required; an empty or blank reason is
	// rejected before anything is read or written.
	Submit(ctx context.Context, actor model.Actor, folderID, reason string) (*model.AccessRequest, error)

	// Review decides a pending request. Approval grants access for AccessGrantWindow.
	Review(ctx context.Context, actor model.Actor, requestID string, decision ReviewDecision) (*model.AccessRequest, error)

	// ListAll returns every request for admins.
	ListAll(ctx context.Context, actor model.Actor) ([]model.AccessRequestView, error)

	// ListMine returns the caller's own requests.
	ListMine(ctx context.Context, actor model.Actor) ([]model.AccessRequestView, error)

	HasActiveGrant(ctx context.Context, userID, folderID string) (bool, error)
}

type accessRequestService struct {
	repo     repository.AccessRequestRepository
	folders  repository.FolderRepository
	users    repository.UserRepository
	notifier notify.Notifier
	activity ActivityService
	logger   *logging.Logger
	now      func() time.Time
}

func NewAccessRequestService(
	repo repository.AccessRequestRepository,
	folders repository.FolderRepository,
	users repository.UserRepository,
	notifier notify.Notifier,
	activity ActivityService,
	logger *logging.Logger,
) AccessRequestService {
	return &accessRequestService{
		repo:     repo,
		folders:  folders,
		users:    users,
		notifier: notifier,
		activity: activity,
		logger:   logger.With("access_requests"),
		now:      time.Now,
	}
}

func (s *accessRequestService) Submit(ctx context.Context, actor model.Actor, folderID, reason string) (*model.AccessRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if folderID == "" {
		return nil, ErrIDRequired
	}

	f, err := s.folders.FindByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("folder %w", ErrNotFound)
		}
		return nil, err
	}
	if actor.Owns(f.OwnerID) {
		return nil, ErrOwnFolder
	}
	if !f.IsSecret {
		return nil, ErrFolderNotSecret
	}

	req, err := s.repo.Create(ctx, &model.AccessRequest{
		ID:          uuid.NewString(),
		UserID:      actor.UserID,
		FolderID:    f.ID,
		Reason:      reason,
		Status:      model.AccessPending,
		RequestedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, actor, model.ActionRequestFolderAccess, model.EntityAccessRequest, &req.ID, map[string]any{
		"folder_id":   f.ID,
		"folder_name": f.Name,
	})
	return req, nil
}

func (s *accessRequestService) Review(ctx context.Context, actor model.Actor, requestID string, decision ReviewDecision) (*model.AccessRequest, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if requestID == "" {
		return nil, ErrIDRequired
	}

	u := repository.ReviewUpdate{ReviewedBy: actor.UserID, ReviewedAt: s.now().UTC()}
	action := model.ActionDenyAccessRequest
	switch decision {
	case DecisionApprove:
		exp := u.ReviewedAt.Add(AccessGrantWindow)
		u.Status = model.AccessApproved
		u.ExpiresAt = &exp
		action = model.ActionApproveAccessRequest
	case DecisionDeny:
		u.Status = model.AccessDenied
	default:
		return nil, ErrInvalidDecision
	}

	existing, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("access request %w", ErrNotFound)
		}
		return nil, err
	}
	if existing.Status != model.AccessPending {
		return nil, ErrAlreadyReviewed
	}

	reviewed, err := s.repo.Review(ctx, requestID, u)
	if err != nil {
		// Lost a race with another reviewer.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	s.activity.Log(ctx, actor, action, model.EntityAccessRequest, &reviewed.ID, map[string]any{
		"folder_id":    reviewed.FolderID,
		"requester_id": reviewed.UserID,
	})
	s.notifyRequester(ctx, reviewed)
	return reviewed, nil
}

func (s *accessRequestService) notifyRequester(ctx context.Context, r *model.AccessRequest) {
	u, err := s.users.FindByID(ctx, r.UserID)
	if err != nil {
		s.logger.Error("notify_lookup_failed", err, map[string]any{"request_id": r.ID})
		return
	}
	n := notify.Notice{
		Kind:    notify.KindAccessReviewed,
		To:      u.Email,
		Subject: "Access request " + string(r.Status),
		Body:    fmt.Sprintf("Your request for folder access was %s.", r.Status),
		Data: map[string]any{
			"request_id": r.ID,
			"folder_id":  r.FolderID,
			"status":     r.Status,
		},
	}
	if r.ExpiresAt != nil {
		n.Body += " Access expires at " + r.ExpiresAt.Format(time.RFC3339) + "."
		n.Data["expires_at"] = r.ExpiresAt
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Error("notify_failed", err, map[string]any{"request_id": r.ID})
	}
}

func (s *accessRequestService) ListAll(ctx context.Context, actor model.Actor) ([]model.AccessRequestView, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, "")
}

func (s *accessRequestService) ListMine(ctx context.Context, actor model.Actor) ([]model.AccessRequestView, error) {
	return s.repo.List(ctx, actor.UserID)
}

func (s *accessRequestService) HasActiveGrant(ctx context.Context, userID, folderID string) (bool, error) {
	return s.repo.HasActiveGrant(ctx, userID, folderID, s.now())
}
