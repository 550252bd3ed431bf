package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"govdocs/internal/export"
	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// ReportRowLimit caps the rows a single report returns.
const ReportRowLimit = 1000

// ReportField is a selectable column.
type ReportField struct {
	Name        string                `json:"name"`
	DisplayName string                `json:"display_name"`
	Kind        repository.ColumnKind `json:"-"`
}

// ReportTable is a table offered by the report builder. OwnerColumn scopes non-admin queries;
// tables without one are shared reference data.
type ReportTable struct {
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	Fields      []ReportField `json:"fields"`
	OwnerColumn string        `json:"-"`
}

var reportTables = []ReportTable{
	{
		Name:  "documents",
		Label: "Documents",
		Fields: []ReportField{
			{"title", "Title", repository.KindText},
			{"reference_number", "Reference Number", repository.KindText},
			{"file_type", "File Type", repository.KindText},
			{"file_size", "File Size", repository.KindInt},
			{"date_received", "Date Received", repository.KindTime},
			{"tags", "Tags", repository.KindArray},
			{"remarks", "Remarks", repository.KindText},
			{"created_at", "Created At", repository.KindTime},
		},
		OwnerColumn: "owner_id",
	},
	{
		Name:  "folders",
		Label: "Folders",
		Fields: []ReportField{
			{"name", "Folder Name", repository.KindText},
			{"created_at", "Created At", repository.KindTime},
			{"updated_at", "Updated At", repository.KindTime},
		},
		OwnerColumn: "owner_id",
	},
	{
		Name:  "profiles",
		Label: "User Profiles",
		Fields: []ReportField{
			{"full_name", "Full Name", repository.KindText},
			{"email", "Email", repository.KindText},
			{"created_at", "Account Created", repository.KindTime},
		},
		OwnerColumn: "id",
	},
	{
		Name:  "departments",
		Label: "Departments",
		Fields: []ReportField{
			{"name", "Department Name", repository.KindText},
			{"code", "Department Code", repository.KindText},
			{"description", "Description", repository.KindText},
		},
	},
	{
		Name:  "activity_logs",
		Label: "Activity Logs",
		Fields: []ReportField{
			{"action", "Action", repository.KindText},
			{"entity_type", "Entity Type", repository.KindText},
			{"details", "Details", repository.KindJSON},
			{"created_at", "Timestamp", repository.KindTime},
		},
		OwnerColumn: "user_id",
	},
}

// ReportRequest selects a table and fields in display order.
type ReportRequest struct {
	Table  string   `json:"table"`
	Fields []string `json:"fields"`
}

// Report is a built report. Each row maps field name to value.
type Report struct {
	Table   string           `json:"table"`
	Columns []ReportField    `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Count   int              `json:"count"`

	values [][]any
}

// ReportService builds ad-hoc reports over an allow-list of tables and fields.
type ReportService interface {
	Tables() []ReportTable
	Build(ctx context.Context, actor model.Actor, req ReportRequest) (*Report, error)
	// Export builds the report and renders it with display-name headers.
	Export(ctx context.Context, actor model.Actor, req ReportRequest, f export.Format) (*File, error)
}

type reportService struct {
	repo repository.ReportRepository
	loc  *time.Location
	now  func() time.Time
}

func NewReportService(repo repository.ReportRepository, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{repo: repo, loc: loc, now: time.Now}
}

func (s *reportService) Tables() []ReportTable {
	return reportTables
}

func lookupReportTable(name string) (ReportTable, bool) {
	for _, t := range reportTables {
		if t.Name == name {
			return t, true
		}
	}
	return ReportTable{}, false
}

func (s *reportService) Build(ctx context.Context, actor model.Actor, req ReportRequest) (*Report, error) {
	table, ok := lookupReportTable(req.Table)
	if !ok {
		return nil, fmt.Errorf("%w: table %q", ErrInvalidReport, req.Table)
	}
	if len(req.Fields) == 0 {
		return nil, ErrNoFields
	}

	cols := make([]ReportField, 0, len(req.Fields))
	seen := make(map[string]bool, len(req.Fields))
	for _, name := range req.Fields {
		if seen[name] {
			continue
		}
		f, ok := findField(table, name)
		if !ok {
			return nil, fmt.Errorf("%w: field %q", ErrInvalidReport, name)
		}
		seen[name] = true
		cols = append(cols, f)
	}

	q := repository.ReportQuery{Table: table.Name, Limit: ReportRowLimit}
	for _, c := range cols {
		q.Columns = append(q.Columns, repository.ReportColumn{Name: c.Name, Kind: c.Kind})
	}
	if !actor.IsAdmin() && table.OwnerColumn != "" {
		q.ScopeColumn = table.OwnerColumn
		q.ScopeValue = actor.UserID
	}

	values, err := s.repo.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("run report: %w", err)
	}

	rows := make([]map[string]any, len(values))
	for i, v := range values {
		row := make(map[string]any, len(cols))
		for j, c := range cols {
			row[c.Name] = v[j]
		}
		rows[i] = row
	}
	return &Report{Table: table.Name, Columns: cols, Rows: rows, Count: len(rows), values: values}, nil
}

func findField(t ReportTable, name string) (ReportField, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ReportField{}, false
}

func (s *reportService) Export(ctx context.Context, actor model.Actor, req ReportRequest, f export.Format) (*File, error) {
	if f == export.FormatCSV {
		return nil, fmt.Errorf("%w: format %q", ErrInvalidReport, f)
	}
	rep, err := s.Build(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	t := export.Table{
		Title:   strings.ToUpper(rep.Table) + " Report",
		Headers: make([]string, len(rep.Columns)),
		Rows:    make([][]string, len(rep.values)),
	}
	for i, c := range rep.Columns {
		t.Headers[i] = c.DisplayName
	}
	for i, v := range rep.values {
		cells := make([]string, len(v))
		for j := range v {
			cells[j] = export.Cell(v[j], s.loc)
		}
		t.Rows[i] = cells
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, f, t); err != nil {
		return nil, fmt.Errorf("render %s: %w", f, err)
	}
	return &File{
		Name:        fmt.Sprintf("report-%s-%s.%s", rep.Table, s.now().In(s.loc).Format("2006-01-02"), f),
		ContentType: f.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}
