package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"govdocs/internal/repository"
)

// ReportPostgres runs allow-listed report queries.
type ReportPostgres struct {
	db *sql.DB
}

func NewReportPostgres(db *sql.DB) *ReportPostgres {
	return &ReportPostgres{db: db}
}

var _ repository.ReportRepository = (*ReportPostgres)(nil)

// BuildReportSQL renders q with quoted identifiers. The scope value, when present, is the only
// bind parameter.
func BuildReportSQL(q repository.ReportQuery) (string, []any, error) {
	if q.Table == "" || len(q.Columns) == 0 {
		return "", nil, fmt.Errorf("report query needs a table and at least one column")
	}
	cols := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		cols[i] = pq.QuoteIdentifier(c.Name)
	}

	sb := psql.Select(cols...).From(pq.QuoteIdentifier(q.Table))
	if q.ScopeColumn != "" {
		sb = sb.Where(sq.Eq{pq.QuoteIdentifier(q.ScopeColumn): q.ScopeValue})
	}
	sb = sb.OrderBy("1")
	if q.Limit > 0 {
		sb = sb.Limit(uint64(q.Limit))
	}
	return sb.ToSql()
}

func (r *ReportPostgres) Query(ctx context.Context, q repository.ReportQuery) ([][]any, error) {
	stmt, args, err := BuildReportSQL(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([][]any, 0)
	for rows.Next() {
		dest := make([]any, len(q.Columns))
		for i, c := range q.Columns {
			dest[i] = scanTarget(c.Kind)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([]any, len(q.Columns))
		for i, c := range q.Columns {
			v, err := scannedValue(c.Kind, dest[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			row[i] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanTarget(k repository.ColumnKind) any {
	switch k {
	case repository.KindInt:
		return new(sql.NullInt64)
	case repository.KindTime:
		return new(sql.NullTime)
	case repository.KindArray:
		return new(pq.StringArray)
	case repository.KindJSON:
		return new([]byte)
	default:
		return new(sql.NullString)
	}
}

func scannedValue(k repository.ColumnKind, dest any) (any, error) {
	switch v := dest.(type) {
	case *sql.NullInt64:
		if !v.Valid {
			return nil, nil
		}
		return v.Int64, nil
	case *sql.NullTime:
		if !v.Valid {
			return nil, nil
		}
		return v.Time, nil
	case *pq.StringArray:
		if *v == nil {
			return nil, nil
		}
		return []string(*v), nil
	case *[]byte:
		if *v == nil {
			return nil, nil
		}
		var decoded any
		if err := json.Unmarshal(*v, &decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	case *sql.NullString:
		if !v.Valid {
			return nil, nil
		}
		return v.String, nil
	}
	return nil, fmt.Errorf("unsupported column kind %d", k)
}
