package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"govdocs/internal/model"
	"govdocs/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var documentRowColumns = []string{
	"id", "title", "file_path", "file_type", "file_size", "owner_id", "folder_id", "department_id",
	"date_received", "reference_number", "remarks", "tags", "status", "status_notes",
	"status_updated_at", "created_at", "updated_at",
}

func documentRow(rows *sqlmock.Rows, d model.Document) *sqlmock.Rows {
	return rows.AddRow(d.ID, d.Title, d.FilePath, d.FileType, d.FileSize, d.OwnerID, nil, nil,
		nil, "REF-1", nil, "{finance,2024}", string(d.Status), nil, nil, d.CreatedAt, d.UpdatedAt)
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)

	now := time.Now().UTC()
	doc := &model.Document{
		ID:        "doc-1",
		Title:     "report.pdf",
		FilePath:  "user-1/1700000000000.pdf",
		FileType:  "application/pdf",
		FileSize:  500000,
		OwnerID:   "user-1",
		Tags:      []string{"finance", "2024"},
		Status:    model.StatusReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.Title, doc.FilePath, doc.FileType, doc.FileSize, doc.OwnerID,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), doc.Status, sqlmock.AnyArg(), sqlmock.AnyArg(), now, now).
		WillReturnRows(documentRow(sqlmock.NewRows(documentRowColumns), *doc))

	got, err := repo.Create(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)
	assert.Equal(t, []string{"finance", "2024"}, got.Tags)
	assert.Equal(t, "REF-1", *got.ReferenceNumber)
	assert.Nil(t, got.FolderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_CreateConstraintErrors(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		wantErr error
	}{
		{"unique file path", &pgconn.PgError{Code: "23505", ConstraintName: "documents_file_path_key"}, repository.ErrDuplicate},
		{"folder removed", &pgconn.PgError{Code: "23503", ConstraintName: "documents_folder_id_fkey"}, repository.ErrConstraint},
		{"not null", &pgconn.PgError{Code: "23502"}, repository.ErrConstraint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewDocumentPostgres(db)
			mock.ExpectQuery("INSERT INTO documents").WillReturnError(tt.pgErr)

			_, err := repo.Create(context.Background(), &model.Document{ID: "doc-1"})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)
		mock.ExpectQuery("INSERT INTO documents").WillReturnError(errors.New("conn reset"))

		_, err := repo.Create(context.Background(), &model.Document{ID: "doc-1"})
		assert.EqualError(t, err, "conn reset")
	})
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM documents d WHERE d.id = \$1`).
			WithArgs("doc-1").
			WillReturnRows(documentRow(sqlmock.NewRows(documentRowColumns),
				model.Document{ID: "doc-1", Title: "a.pdf", Status: model.StatusProcessing}))

		doc, err := repo.FindByID(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusProcessing, doc.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM documents d WHERE d.id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List(t *testing.T) {
	ctx := context.Background()

	t.Run("owner scoped page", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents d LEFT JOIN folders f ON f.id = d.folder_id WHERE d.owner_id = \$1`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectQuery(`WHERE d.owner_id = \$1 ORDER BY d.created_at DESC, d.id DESC LIMIT 2 OFFSET 0$`).
			WithArgs("user-1").
			WillReturnRows(documentRow(documentRow(sqlmock.NewRows(documentRowColumns),
				model.Document{ID: "d2"}), model.Document{ID: "d1"}))

		res, err := repo.List(ctx, repository.DocumentFilter{OwnerID: "user-1"}, repository.PageQuery{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "d2", res.Items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("admin search escapes wildcards", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		pattern := `%50\%%`
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents d LEFT JOIN folders f ON f.id = d.folder_id ` +
			`WHERE \(d.title ILIKE \$1 OR d.reference_number ILIKE \$2 OR f.name ILIKE \$3 ` +
			`OR EXISTS \(SELECT 1 FROM unnest\(d.tags\) AS t\(tag\) WHERE t.tag ILIKE \$4\)\)$`).
			WithArgs(pattern, pattern, pattern, pattern).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`unnest\(d.tags\) (.+) ORDER BY d.created_at DESC, d.id DESC LIMIT 20 OFFSET 0$`).
			WithArgs(pattern, pattern, pattern, pattern).
			WillReturnRows(sqlmock.NewRows(documentRowColumns))

		res, err := repo.List(ctx, repository.DocumentFilter{Query: "50%"}, repository.PageQuery{Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.NotNil(t, res.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count error", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("db down"))

		_, err := repo.List(ctx, repository.DocumentFilter{}, repository.PageQuery{Limit: 10})
		assert.EqualError(t, err, "db down")
	})
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM documents WHERE id = \$1`).
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, "doc-1"))

	mock.ExpectExec(`DELETE FROM documents WHERE id = \$1`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "gone"), repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	notes := "routed to legal"
	mock.ExpectQuery(`UPDATE documents AS d\s+SET status = \$2`).
		WithArgs("doc-1", model.StatusCompleted, &notes, at).
		WillReturnRows(documentRow(sqlmock.NewRows(documentRowColumns),
			model.Document{ID: "doc-1", Status: model.StatusCompleted}))

	doc, err := repo.UpdateStatus(context.Background(), "doc-1", model.StatusCompleted, &notes, at)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, doc.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Count(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents d$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := repo.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%report%", likePattern("report"))
	assert.Equal(t, `%a\_b\%c\\%`, likePattern(`a_b%c\`))
}
