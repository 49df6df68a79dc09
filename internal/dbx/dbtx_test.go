package dbx

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{
			name:    "sqlite untouched",
			dialect: DialectSQLite,
			in:      `SELECT v FROM kv WHERE a = ? AND b = ?`,
			want:    `SELECT v FROM kv WHERE a = ? AND b = ?`,
		},
		{
			name:    "postgres numbered",
			dialect: DialectPostgres,
			in:      `INSERT INTO kv (a, b, c) VALUES (?, ?, ?)`,
			want:    `INSERT INTO kv (a, b, c) VALUES ($1, $2, $3)`,
		},
		{
			name:    "quoted question mark kept",
			dialect: DialectPostgres,
			in:      `SELECT '?' FROM kv WHERE a = ?`,
			want:    `SELECT '?' FROM kv WHERE a = $1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rebind(tt.dialect, tt.in))
		})
	}
}

func TestDialect_Valid(t *testing.T) {
	assert.True(t, DialectSQLite.Valid())
	assert.True(t, DialectPostgres.Valid())
	assert.False(t, Dialect("mysql").Valid())
}

func TestDBTX_SatisfiedBySQLTypes(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "dbx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var q DBTX = db
	_, err = q.ExecContext(context.Background(), `CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	q = tx
	_, err = q.ExecContext(context.Background(), Rebind(DialectSQLite, `INSERT INTO t(v) VALUES (?)`), "x")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	assert.Equal(t, 1, n)
}
