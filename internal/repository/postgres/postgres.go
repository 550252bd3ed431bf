// Package postgres implements the repository interfaces on database/sql with parameterized
// queries. Statements with optional filters are built with squirrel. It contains no business logic.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"govdocs/internal/repository"
)

const uniqueViolation = "23505"

// psql renders $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type scanner interface {
	Scan(dest ...any) error
}

// notFound maps sql.ErrNoRows to repository.ErrNotFound and leaves other errors untouched.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// constraintErr maps integrity violations (SQLSTATE class 23): unique to repository.ErrDuplicate,
// the rest to repository.ErrConstraint. Other errors pass through.
func constraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == uniqueViolation:
		return repository.ErrDuplicate
	case strings.HasPrefix(pgErr.Code, "23"):
		return fmt.Errorf("%w: %s", repository.ErrConstraint, pgErr.ConstraintName)
	}
	return err
}

// expectOne turns a zero-row mutation into repository.ErrNotFound.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// likePattern wraps q for a substring ILIKE match with wildcards in q escaped.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// ownedBy narrows sb to rows whose column equals ownerID. An empty ownerID leaves sb unscoped.
func ownedBy(sb sq.SelectBuilder, column, ownerID string) sq.SelectBuilder {
	if ownerID == "" {
		return sb
	}
	return sb.Where(sq.Eq{column: ownerID})
}
