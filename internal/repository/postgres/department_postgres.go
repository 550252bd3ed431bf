package postgres

import (
	"context"
	"database/sql"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// DepartmentPostgres reads the departments table.
type DepartmentPostgres struct {
	db *sql.DB
}

func NewDepartmentPostgres(db *sql.DB) *DepartmentPostgres {
	return &DepartmentPostgres{db: db}
}

var _ repository.DepartmentRepository = (*DepartmentPostgres)(nil)

const departmentColumns = `id, name, code, description, created_at`

func scanDepartment(s scanner) (*model.Department, error) {
	var d model.Department
	if err := s.Scan(&d.ID, &d.Name, &d.Code, &d.Description, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentPostgres) List(ctx context.Context) ([]model.Department, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

func (r *DepartmentPostgres) FindByID(ctx context.Context, id string) (*model.Department, error) {
	d, err := scanDepartment(r.db.QueryRowContext(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}
