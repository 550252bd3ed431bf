package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"govdocs/internal/export"
	"govdocs/internal/logging"
	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// Export limits for the activity CSV.
const (
	ActivityExportAdminLimit = 100
	ActivityExportUserLimit  = 50
)

// ActivityDateLayout is the date format used in the activity CSV.
const ActivityDateLayout = "Jan 2, 2006, 3:04:05 PM"

var activityCSVHeaders = []string{"Date", "User", "Action", "Entity Type", "Details"}

// ActivityListResult is a page of audit records.
type ActivityListResult struct {
	Items []model.ActivityLogView `json:"data"`
	Total int                     `json:"total"`
}

// File is a rendered download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ActivityService records and reads the audit trail.
type ActivityService interface {
	// Log appends a record. Failures are logged and never returned, so auditing cannot break the
	// operation being audited.
	Log(ctx context.Context, actor model.Actor, action, entityType string, entityID *string, details map[string]any)

	List(ctx context.Context, actor model.Actor, limit, offset int) (*ActivityListResult, error)

	// ExportCSV renders the most recent records visible to the caller.
	ExportCSV(ctx context.Context, actor model.Actor) (*File, error)
}

type activityService struct {
	repo   repository.ActivityRepository
	logger *logging.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewActivityService renders export dates in loc (UTC when nil).
func NewActivityService(repo repository.ActivityRepository, logger *logging.Logger, loc *time.Location) ActivityService {
	if loc == nil {
		loc = time.UTC
	}
	return &activityService{repo: repo, logger: logger.With("activity"), loc: loc, now: time.Now}
}

func (s *activityService) Log(ctx context.Context, actor model.Actor, action, entityType string, entityID *string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	rec := &model.ActivityLog{
		ID:         uuid.NewString(),
		UserID:     actor.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error("activity_log_failed", err, map[string]any{
			"action":      action,
			"entity_type": entityType,
			"user_id":     actor.UserID,
		})
	}
}

func (s *activityService) List(ctx context.Context, actor model.Actor, limit, offset int) (*ActivityListResult, error) {
	limit, offset = normalizePage(limit, offset, 50)
	res, err := s.repo.List(ctx, ownerScope(actor), repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		if res.Items[i].UserName == "" {
			res.Items[i].UserName = "Unknown"
		}
	}
	return &ActivityListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *activityService) ExportCSV(ctx context.Context, actor model.Actor) (*File, error) {
	limit := ActivityExportUserLimit
	if actor.IsAdmin() {
		limit = ActivityExportAdminLimit
	}
	res, err := s.repo.List(ctx, ownerScope(actor), repository.PageQuery{Limit: limit})
	if err != nil {
		return nil, err
	}

	loc := s.loc
	table := export.Table{Headers: activityCSVHeaders, Rows: make([][]string, 0, len(res.Items))}
	for _, it := range res.Items {
		user := it.UserName
		if user == "" {
			user = "Unknown"
		}
		details := "{}"
		if len(it.Details) > 0 {
			b, err := json.Marshal(it.Details)
			if err != nil {
				return nil, fmt.Errorf("encode details: %w", err)
			}
			details = string(b)
		}
		table.Rows = append(table.Rows, []string{
			it.CreatedAt.In(loc).Format(ActivityDateLayout),
			user,
			it.Action,
			it.EntityType,
			details,
		})
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table); err != nil {
		return nil, err
	}
	return &File{
		Name:        fmt.Sprintf("activity-report-%s.csv", s.now().In(loc).Format("2006-01-02")),
		ContentType: export.FormatCSV.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// normalizePage applies the default page size and clamps negative offsets.
func normalizePage(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
