package postgres

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// AccessRequestPostgres is a PostgreSQL implementation of repository.AccessRequestRepository.
type AccessRequestPostgres struct {
	db *sql.DB
}

func NewAccessRequestPostgres(db *sql.DB) *AccessRequestPostgres {
	return &AccessRequestPostgres{db: db}
}

var _ repository.AccessRequestRepository = (*AccessRequestPostgres)(nil)

const accessRequestColumns = `ar.id, ar.user_id, ar.folder_id, ar.reason, ar.status, ar.requested_at,
	ar.reviewed_at, ar.reviewed_by, ar.expires_at`

func scanAccessRequest(s scanner, extra ...any) (*model.AccessRequest, error) {
	var a model.AccessRequest
	dest := append([]any{
		&a.ID,
		&a.UserID,
		&a.FolderID,
		&a.Reason,
		&a.Status,
		&a.RequestedAt,
		&a.ReviewedAt,
		&a.ReviewedBy,
		&a.ExpiresAt,
	}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccessRequestPostgres) Create(ctx context.Context, a *model.AccessRequest) (*model.AccessRequest, error) {
	const q = `
		INSERT INTO access_requests AS ar (id, user_id, folder_id, reason, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accessRequestColumns
	out, err := scanAccessRequest(r.db.QueryRowContext(ctx, q, a.ID, a.UserID, a.FolderID, a.Reason, a.Status, a.RequestedAt))
	if err != nil {
		return nil, constraintErr(err)
	}
	return out, nil
}

func (r *AccessRequestPostgres) FindByID(ctx context.Context, id string) (*model.AccessRequest, error) {
	const q = `SELECT ` + accessRequestColumns + ` FROM access_requests ar WHERE ar.id = $1`
	a, err := scanAccessRequest(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// Review is a conditional update, so two concurrent reviewers cannot both decide the same request.
func (r *AccessRequestPostgres) Review(ctx context.Context, id string, u repository.ReviewUpdate) (*model.AccessRequest, error) {
	const q = `
		UPDATE access_requests AS ar
		SET status = $2, reviewed_by = $3, reviewed_at = $4, expires_at = $5
		WHERE ar.id = $1 AND ar.status = 'pending'
		RETURNING ` + accessRequestColumns
	a, err := scanAccessRequest(r.db.QueryRowContext(ctx, q, id, u.Status, u.ReviewedBy, u.ReviewedAt, u.ExpiresAt))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *AccessRequestPostgres) List(ctx context.Context, userID string) ([]model.AccessRequestView, error) {
	sb := psql.Select(accessRequestColumns, "COALESCE(p.full_name, '')", "COALESCE(p.email, '')", "COALESCE(f.name, '')").
		From("access_requests ar").
		LeftJoin("profiles p ON p.id = ar.user_id").
		LeftJoin("folders f ON f.id = ar.folder_id").
		OrderBy("ar.requested_at DESC", "ar.id DESC")
	q, args, err := ownedBy(sb, "ar.user_id", userID).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AccessRequestView, 0)
	for rows.Next() {
		var v model.AccessRequestView
		a, err := scanAccessRequest(rows, &v.RequesterName, &v.RequesterEmail, &v.FolderName)
		if err != nil {
			return nil, err
		}
		v.AccessRequest = *a
		items = append(items, v)
	}
	return items, rows.Err()
}

func (r *AccessRequestPostgres) HasActiveGrant(ctx context.Context, userID, folderID string, now time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM access_requests
			WHERE user_id = $1 AND folder_id = $2 AND status = 'approved' AND expires_at > $3
		)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, userID, folderID, now).Scan(&ok)
	return ok, err
}

func (r *AccessRequestPostgres) CountPending(ctx context.Context, userID string) (int, error) {
	sb := psql.Select("COUNT(*)").From("access_requests").Where(sq.Eq{"status": model.AccessPending})
	q, args, err := ownedBy(sb, "user_id", userID).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = r.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}
