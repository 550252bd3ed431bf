package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// ActivityPostgres is a PostgreSQL implementation of repository.ActivityRepository.
type ActivityPostgres struct {
	db *sql.DB
}

func NewActivityPostgres(db *sql.DB) *ActivityPostgres {
	return &ActivityPostgres{db: db}
}

var _ repository.ActivityRepository = (*ActivityPostgres)(nil)

func (r *ActivityPostgres) Create(ctx context.Context, l *model.ActivityLog) error {
	details := l.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	const q = `
		INSERT INTO activity_logs (id, user_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, q, l.ID, l.UserID, l.Action, l.EntityType, l.EntityID, raw, l.CreatedAt)
	return err
}

func (r *ActivityPostgres) List(ctx context.Context, userID string, page repository.PageQuery) (*repository.PageResult[model.ActivityLogView], error) {
	countSQL, countArgs, err := ownedBy(psql.Select("COUNT(*)").From("activity_logs a"), "a.user_id", userID).ToSql()
	if err != nil {
		return nil, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, err
	}

	sb := psql.Select(
		"a.id", "a.user_id", "a.action", "a.entity_type", "a.entity_id", "a.details", "a.created_at",
		"COALESCE(p.full_name, '')", "COALESCE(p.email, '')",
	).From("activity_logs a").
		LeftJoin("profiles p ON p.id = a.user_id")
	q, args, err := ownedBy(sb, "a.user_id", userID).
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ActivityLogView, 0)
	for rows.Next() {
		var (
			v   model.ActivityLogView
			raw []byte
		)
		if err := rows.Scan(
			&v.ID,
			&v.UserID,
			&v.Action,
			&v.EntityType,
			&v.EntityID,
			&raw,
			&v.CreatedAt,
			&v.UserName,
			&v.UserEmail,
		); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &v.Details); err != nil {
				return nil, fmt.Errorf("decode details: %w", err)
			}
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ActivityLogView]{Items: items, Total: total}, nil
}
