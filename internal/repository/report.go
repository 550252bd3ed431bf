package repository

import "context"

// ColumnKind selects how a report column is scanned.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInt
	KindTime
	KindArray
	KindJSON
)

// ReportColumn is one selected column of a report query.
type ReportColumn struct {
	Name string
	Kind ColumnKind
}

// ReportQuery selects Columns from Table. When ScopeColumn is set only rows whose ScopeColumn
// equals ScopeValue are returned. Table and column names must come from a trusted allow-list.
type ReportQuery struct {
	Table       string
	Columns     []ReportColumn
	ScopeColumn string
	ScopeValue  string
	Limit       int
}

// ReportRepository runs ad-hoc report queries. Each returned row holds one value per column in
// order: string, int64, time.Time, []string, any (decoded JSON) or nil for NULL.
type ReportRepository interface {
	Query(ctx context.Context, q ReportQuery) ([][]any, error)
}
