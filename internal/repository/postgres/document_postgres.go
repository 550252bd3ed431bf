package postgres

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `d.id, d.title, d.file_path, d.file_type, d.file_size, d.owner_id, d.folder_id,
	d.department_id, d.date_received, d.reference_number, d.remarks, d.tags, d.status,
	d.status_notes, d.status_updated_at, d.created_at, d.updated_at`

func scanDocument(s scanner) (*model.Document, error) {
	var d model.Document
	if err := s.Scan(
		&d.ID,
		&d.Title,
		&d.FilePath,
		&d.FileType,
		&d.FileSize,
		&d.OwnerID,
		&d.FolderID,
		&d.DepartmentID,
		&d.DateReceived,
		&d.ReferenceNumber,
		&d.Remarks,
		pq.Array(&d.Tags),
		&d.Status,
		&d.StatusNotes,
		&d.StatusUpdatedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents AS d (id, title, file_path, file_type, file_size, owner_id, folder_id,
			department_id, date_received, reference_number, remarks, tags, status, status_notes,
			status_updated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + documentColumns
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.FilePath,
		doc.FileType,
		doc.FileSize,
		doc.OwnerID,
		doc.FolderID,
		doc.DepartmentID,
		doc.DateReceived,
		doc.ReferenceNumber,
		doc.Remarks,
		pq.Array(tags),
		doc.Status,
		doc.StatusNotes,
		doc.StatusUpdatedAt,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, constraintErr(err)
	}
	return out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents d WHERE d.id = $1`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

// filterDocuments applies the owner, folder and text filters. The text query matches title,
// reference number, folder name and any tag.
func filterDocuments(sb sq.SelectBuilder, f repository.DocumentFilter) sq.SelectBuilder {
	sb = ownedBy(sb, "d.owner_id", f.OwnerID)
	if f.FolderID != "" {
		sb = sb.Where(sq.Eq{"d.folder_id": f.FolderID})
	}
	if f.Query != "" {
		pattern := likePattern(f.Query)
		sb = sb.Where(sq.Or{
			sq.ILike{"d.title": pattern},
			sq.ILike{"d.reference_number": pattern},
			sq.ILike{"f.name": pattern},
			sq.Expr("EXISTS (SELECT 1 FROM unnest(d.tags) AS t(tag) WHERE t.tag ILIKE ?)", pattern),
		})
	}
	return sb
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter, page repository.PageQuery) (*repository.PageResult[model.Document], error) {
	countSQL, countArgs, err := filterDocuments(
		psql.Select("COUNT(*)").From("documents d").LeftJoin("folders f ON f.id = d.folder_id"), f,
	).ToSql()
	if err != nil {
		return nil, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, err
	}

	listSQL, listArgs, err := filterDocuments(
		psql.Select(documentColumns).From("documents d").LeftJoin("folders f ON f.id = d.folder_id"), f,
	).OrderBy("d.created_at DESC", "d.id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a document by ID.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// UpdateStatus sets the lifecycle status and its notes.
func (r *DocumentPostgres) UpdateStatus(ctx context.Context, id string, status model.DocumentStatus, notes *string, at time.Time) (*model.Document, error) {
	const q = `
		UPDATE documents AS d
		SET status = $2, status_notes = $3, status_updated_at = $4, updated_at = $4
		WHERE d.id = $1
		RETURNING ` + documentColumns
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id, status, notes, at))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

// Count returns the number of documents visible under ownerID.
func (r *DocumentPostgres) Count(ctx context.Context, ownerID string) (int, error) {
	q, args, err := ownedBy(psql.Select("COUNT(*)").From("documents d"), "d.owner_id", ownerID).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = r.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}
