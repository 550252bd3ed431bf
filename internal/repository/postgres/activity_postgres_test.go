package postgres

import (
	"context"
	"testing"
	"time"

	"govdocs/internal/model"
	"govdocs/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewActivityPostgres(db)
	now := time.Now().UTC()
	docID := "doc-1"

	mock.ExpectExec("INSERT INTO activity_logs").
		WithArgs("log-1", "u1", model.ActionUploadDocument, model.EntityDocument, &docID, []byte(`{"title":"report.pdf"}`), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &model.ActivityLog{
		ID:         "log-1",
		UserID:     "u1",
		Action:     model.ActionUploadDocument,
		EntityType: model.EntityDocument,
		EntityID:   &docID,
		Details:    map[string]any{"title": "report.pdf"},
		CreatedAt:  now,
	})
	assert.NoError(t, err)

	mock.ExpectExec("INSERT INTO activity_logs").
		WithArgs("log-2", "u1", model.ActionLogin, model.EntityUser, nil, []byte(`{}`), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), &model.ActivityLog{
		ID: "log-2", UserID: "u1", Action: model.ActionLogin, EntityType: model.EntityUser, CreatedAt: now,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewActivityPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM activity_logs a WHERE a.user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`LEFT JOIN profiles p ON p.id = a.user_id WHERE a.user_id = \$1 ORDER BY a.created_at DESC, a.id DESC LIMIT 50 OFFSET 0$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "entity_type", "entity_id", "details", "created_at", "full_name", "email"}).
			AddRow("log-1", "u1", "upload_document", "document", "doc-1", []byte(`{"title":"report.pdf"}`), now, "", ""))

	res, err := repo.List(context.Background(), "u1", repository.PageQuery{Limit: 50})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "report.pdf", res.Items[0].Details["title"])
	assert.Equal(t, "doc-1", *res.Items[0].EntityID)
	assert.Equal(t, "", res.Items[0].UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityPostgres_ListAll(t *testing.T) {
	db, mock := newMock(t)
	repo := NewActivityPostgres(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM activity_logs a$`).
		WithArgs().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM activity_logs a LEFT JOIN profiles p ON p.id = a.user_id ORDER BY a.created_at DESC, a.id DESC LIMIT 20 OFFSET 40$`).
		WithArgs().
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "entity_type", "entity_id", "details", "created_at", "full_name", "email"}))

	res, err := repo.List(context.Background(), "", repository.PageQuery{Limit: 20, Offset: 40})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
