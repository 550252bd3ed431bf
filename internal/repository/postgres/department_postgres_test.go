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

var departmentRowColumns = []string{"id", "name", "code", "description", "created_at"}

func TestDepartmentPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDepartmentPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM departments ORDER BY name, id`).
		WillReturnRows(sqlmock.NewRows(departmentRowColumns).
			AddRow("d1", "Finance", "FIN", "Budget office", now).
			AddRow("d2", "Records", "REC", nil, now))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "FIN", items[0].Code)
	assert.Nil(t, items[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentPostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDepartmentPostgres(db)

	mock.ExpectQuery(`FROM departments WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(departmentRowColumns))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
