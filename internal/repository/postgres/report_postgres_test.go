package postgres

import (
	"context"
	"testing"
	"time"

	"govdocs/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportSQL(t *testing.T) {
	stmt, args, err := BuildReportSQL(repository.ReportQuery{
		Table:       "documents",
		Columns:     []repository.ReportColumn{{Name: "title"}, {Name: "file_size", Kind: repository.KindInt}},
		ScopeColumn: "owner_id",
		ScopeValue:  "u1",
		Limit:       1000,
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "title", "file_size" FROM "documents" WHERE "owner_id" = $1 ORDER BY 1 LIMIT 1000`, stmt)
	assert.Equal(t, []any{"u1"}, args)

	stmt, args, err = BuildReportSQL(repository.ReportQuery{
		Table:   "departments",
		Columns: []repository.ReportColumn{{Name: "name"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "name" FROM "departments" ORDER BY 1`, stmt)
	assert.Empty(t, args)

	_, _, err = BuildReportSQL(repository.ReportQuery{Table: "documents"})
	assert.Error(t, err)
}

func TestReportPostgres_Query(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReportPostgres(db)
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT "title", "file_size", "tags", "created_at", "remarks" FROM "documents"`).
		WillReturnRows(sqlmock.NewRows([]string{"title", "file_size", "tags", "created_at", "remarks"}).
			AddRow("report.pdf", int64(500000), "{finance,q1}", created, nil))

	rows, err := repo.Query(context.Background(), repository.ReportQuery{
		Table: "documents",
		Columns: []repository.ReportColumn{
			{Name: "title", Kind: repository.KindText},
			{Name: "file_size", Kind: repository.KindInt},
			{Name: "tags", Kind: repository.KindArray},
			{Name: "created_at", Kind: repository.KindTime},
			{Name: "remarks", Kind: repository.KindText},
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []any{"report.pdf", int64(500000), []string{"finance", "q1"}, created, nil}, rows[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportPostgres_QueryJSON(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReportPostgres(db)

	mock.ExpectQuery(`SELECT "action", "details" FROM "activity_logs" WHERE "user_id" = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"action", "details"}).
			AddRow("upload_document", []byte(`{"title":"a.pdf"}`)))

	rows, err := repo.Query(context.Background(), repository.ReportQuery{
		Table:       "activity_logs",
		Columns:     []repository.ReportColumn{{Name: "action"}, {Name: "details", Kind: repository.KindJSON}},
		ScopeColumn: "user_id",
		ScopeValue:  "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "a.pdf"}, rows[0][1])
}
