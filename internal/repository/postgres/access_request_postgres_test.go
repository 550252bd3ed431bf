package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"govdocs/internal/model"
	"govdocs/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accessRequestRowColumns = []string{
	"id", "user_id", "folder_id", "reason", "status", "requested_at", "reviewed_at", "reviewed_by", "expires_at",
}

func TestAccessRequestPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccessRequestPostgres(db)

	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	req := &model.AccessRequest{ID: "ar-1", UserID: "u1", FolderID: "f1", Reason: "audit", Status: model.AccessPending, RequestedAt: at}

	mock.ExpectQuery("INSERT INTO access_requests").
		WithArgs("ar-1", "u1", "f1", "audit", model.AccessPending, at).
		WillReturnRows(sqlmock.NewRows(accessRequestRowColumns).
			AddRow("ar-1", "u1", "f1", "audit", "pending", at, nil, nil, nil))

	got, err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.AccessPending, got.Status)
	assert.Nil(t, got.ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessRequestPostgres_Review(t *testing.T) {
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	exp := at.Add(2 * time.Hour)

	t.Run("pending request is updated", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewAccessRequestPostgres(db)

		mock.ExpectQuery(`WHERE ar.id = \$1 AND ar.status = 'pending'`).
			WithArgs("ar-1", model.AccessApproved, "admin-1", at, &exp).
			WillReturnRows(sqlmock.NewRows(accessRequestRowColumns).
				AddRow("ar-1", "u1", "f1", "audit", "approved", at, at, "admin-1", exp))

		got, err := repo.Review(context.Background(), "ar-1", repository.ReviewUpdate{
			Status: model.AccessApproved, ReviewedBy: "admin-1", ReviewedAt: at, ExpiresAt: &exp,
		})
		require.NoError(t, err)
		assert.Equal(t, model.AccessApproved, got.Status)
		require.NotNil(t, got.ExpiresAt)
		assert.Equal(t, exp, *got.ExpiresAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already reviewed yields not found", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewAccessRequestPostgres(db)

		mock.ExpectQuery(`WHERE ar.id = \$1 AND ar.status = 'pending'`).
			WithArgs("ar-1", model.AccessDenied, "admin-1", at, nil).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Review(context.Background(), "ar-1", repository.ReviewUpdate{
			Status: model.AccessDenied, ReviewedBy: "admin-1", ReviewedAt: at,
		})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestAccessRequestPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccessRequestPostgres(db)
	at := time.Now().UTC()

	cols := append(append([]string{}, accessRequestRowColumns...), "full_name", "email", "name")
	mock.ExpectQuery(`LEFT JOIN folders f ON f.id = ar.folder_id WHERE ar.user_id = \$1 ORDER BY ar.requested_at DESC, ar.id DESC$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("ar-2", "u1", "f1", "again", "denied", at, at, "admin-1", nil, "Ana Cruz", "ana@example.gov", "Budget"))

	items, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.AccessDenied, items[0].Status)
	assert.Equal(t, "Ana Cruz", items[0].RequesterName)
	assert.Equal(t, "Budget", items[0].FolderName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessRequestPostgres_HasActiveGrant(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccessRequestPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`status = 'approved' AND expires_at > \$3`).
		WithArgs("u1", "f1", now).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasActiveGrant(context.Background(), "u1", "f1", now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccessRequestPostgres_CountPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccessRequestPostgres(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM access_requests WHERE status = \$1$`).
		WithArgs(model.AccessPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`WHERE status = \$1 AND user_id = \$2$`).
		WithArgs(model.AccessPending, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	all, err := repo.CountPending(context.Background(), "")
	require.NoError(t, err)
	mine, err := repo.CountPending(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, all)
	assert.Equal(t, 1, mine)
}
