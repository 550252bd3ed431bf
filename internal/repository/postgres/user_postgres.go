package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository over the profiles and
// user_roles tables.
type UserPostgres struct {
	db *sql.DB
}

func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userSelect = `
	SELECT p.id, p.email, p.full_name, p.password_hash, p.email_verified_at, p.created_at, p.updated_at,
		COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
	FROM profiles p
	LEFT JOIN user_roles r ON r.user_id = p.id`

const userGroup = ` GROUP BY p.id`

func scanUser(s scanner) (*model.UserWithRoles, error) {
	var u model.UserWithRoles
	var roles pq.StringArray
	if err := s.Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.EmailVerifiedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
		&roles,
	); err != nil {
		return nil, err
	}
	u.Roles = []string(roles)
	if u.Roles == nil {
		u.Roles = []string{}
	}
	return &u, nil
}

// Create inserts the profile and its role rows in one transaction.
func (r *UserPostgres) Create(ctx context.Context, p *model.Profile, roles []string) (*model.UserWithRoles, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const qProfile = `
		INSERT INTO profiles (id, email, full_name, password_hash, email_verified_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, qProfile,
		p.ID, p.Email, p.FullName, p.PasswordHash, p.EmailVerifiedAt, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}

	for _, role := range roles {
		if _, err := tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, p.ID, role); err != nil {
			return nil, fmt.Errorf("assign role %s: %w", role, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out := &model.UserWithRoles{Profile: *p, Roles: append([]string{}, roles...)}
	return out, nil
}

func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.UserWithRoles, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE p.id = $1`+userGroup, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// FindByEmail matches the address case-insensitively.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.UserWithRoles, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE lower(p.email) = lower($1)`+userGroup, email))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *UserPostgres) List(ctx context.Context) ([]model.UserWithRoles, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+userGroup+` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.UserWithRoles, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	return items, rows.Err()
}

func (r *UserPostgres) UpdateProfile(ctx context.Context, id, fullName string, at time.Time) (*model.Profile, error) {
	const q = `
		UPDATE profiles SET full_name = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, email, full_name, password_hash, email_verified_at, created_at, updated_at`
	var p model.Profile
	if err := r.db.QueryRowContext(ctx, q, id, fullName, at).Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&p.PasswordHash,
		&p.EmailVerifiedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *UserPostgres) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, hash, at)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// MarkVerified stamps the first verification time and leaves an existing stamp unchanged.
func (r *UserPostgres) MarkVerified(ctx context.Context, id string, at time.Time) error {
	const q = `
		UPDATE profiles SET email_verified_at = COALESCE(email_verified_at, $2), updated_at = $2
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, at)
	if err != nil {
		return err
	}
	return expectOne(res)
}
