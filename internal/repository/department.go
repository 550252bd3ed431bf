package repository

import (
	"context"

	"govdocs/internal/model"
)

// DepartmentRepository reads shared department reference data.
type DepartmentRepository interface {
	List(ctx context.Context) ([]model.Department, error)
	FindByID(ctx context.Context, id string) (*model.Department, error)
}
