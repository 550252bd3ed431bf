package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// DashboardStats are the counters shown on the landing page.
type DashboardStats struct {
	Documents       int `json:"documents"`
	Folders         int `json:"folders"`
	PendingRequests int `json:"pending_requests"`
	// AwaitingReview counts every pending request. Admins only.
	AwaitingReview *int                    `json:"awaiting_review,omitempty"`
	Recent         []model.ActivityLogView `json:"recent_activity"`
}

type DashboardService interface {
	Stats(ctx context.Context, actor model.Actor) (*DashboardStats, error)
}

type dashboardService struct {
	docs     repository.DocumentRepository
	folders  repository.FolderRepository
	requests repository.AccessRequestRepository
	activity repository.ActivityRepository
}

func NewDashboardService(
	docs repository.DocumentRepository,
	folders repository.FolderRepository,
	requests repository.AccessRequestRepository,
	activity repository.ActivityRepository,
) DashboardService {
	return &dashboardService{docs: docs, folders: folders, requests: requests, activity: activity}
}

const dashboardRecentLimit = 5

func (s *dashboardService) Stats(ctx context.Context, actor model.Actor) (*DashboardStats, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.Stats")
	defer span.End()

	scope := ownerScope(actor)
	var st DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.Documents, err = s.docs.Count(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		st.Folders, err = s.folders.Count(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		st.PendingRequests, err = s.requests.CountPending(gctx, actor.UserID)
		return err
	})
	if actor.IsAdmin() {
		g.Go(func() error {
			n, err := s.requests.CountPending(gctx, "")
			if err != nil {
				return err
			}
			st.AwaitingReview = &n
			return nil
		})
	}
	g.Go(func() error {
		res, err := s.activity.List(gctx, scope, repository.PageQuery{Limit: dashboardRecentLimit})
		if err != nil {
			return err
		}
		st.Recent = res.Items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}
