// Package dbx provides the small database/sql abstractions shared by the
// SQL-backed store: the DBTX interface implemented by *sql.DB and *sql.Tx,
// and placeholder rebinding between the supported dialects.
package dbx

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// DBTX is the subset of database/sql used by the store.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect names a database/sql driver family.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "pgx"
)

// Valid reports whether d is one of the supported dialects.
func (d Dialect) Valid() bool {
	return d == DialectSQLite || d == DialectPostgres
}

// Rebind rewrites '?' placeholders into the form the dialect expects.
// Queries are written once with '?' and rebound for Postgres ($1, $2, ...).
// Quoted literals are left untouched.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
