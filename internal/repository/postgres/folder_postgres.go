package postgres

import (
	"context"
	"database/sql"
	"time"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// FolderPostgres is a PostgreSQL implementation of repository.FolderRepository.
type FolderPostgres struct {
	db *sql.DB
}

func NewFolderPostgres(db *sql.DB) *FolderPostgres {
	return &FolderPostgres{db: db}
}

var _ repository.FolderRepository = (*FolderPostgres)(nil)

const folderColumns = `id, name, owner_id, is_secret, created_at, updated_at`

func scanFolder(s scanner) (*model.Folder, error) {
	var f model.Folder
	if err := s.Scan(&f.ID, &f.Name, &f.OwnerID, &f.IsSecret, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FolderPostgres) Create(ctx context.Context, f *model.Folder) (*model.Folder, error) {
	const q = `
		INSERT INTO folders (id, name, owner_id, is_secret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + folderColumns
	out, err := scanFolder(r.db.QueryRowContext(ctx, q, f.ID, f.Name, f.OwnerID, f.IsSecret, f.CreatedAt, f.UpdatedAt))
	if err != nil {
		return nil, constraintErr(err)
	}
	return out, nil
}

func (r *FolderPostgres) FindByID(ctx context.Context, id string) (*model.Folder, error) {
	const q = `SELECT ` + folderColumns + ` FROM folders WHERE id = $1`
	f, err := scanFolder(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func (r *FolderPostgres) List(ctx context.Context, ownerID string) ([]model.Folder, error) {
	q, args, err := ownedBy(psql.Select(folderColumns).From("folders"), "owner_id", ownerID).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// Delete removes the folder. Documents inside keep their rows with folder_id cleared by the
// foreign key.
func (r *FolderPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *FolderPostgres) SetSecret(ctx context.Context, id string, secret bool, at time.Time) (*model.Folder, error) {
	const q = `
		UPDATE folders SET is_secret = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + folderColumns
	f, err := scanFolder(r.db.QueryRowContext(ctx, q, id, secret, at))
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func (r *FolderPostgres) Count(ctx context.Context, ownerID string) (int, error) {
	q, args, err := ownedBy(psql.Select("COUNT(*)").From("folders"), "owner_id", ownerID).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = r.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}
