package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"govdocs/internal/export"
	"govdocs/internal/model"
	"govdocs/internal/service"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Tables() []service.ReportTable {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]service.ReportTable)
}

func (m *MockReportService) Build(ctx context.Context, actor model.Actor, req service.ReportRequest) (*service.Report, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}

func (m *MockReportService) Export(ctx context.Context, actor model.Actor, req service.ReportRequest, f export.Format) (*service.File, error) {
	args := m.Called(ctx, actor, req, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.File), args.Error(1)
}
