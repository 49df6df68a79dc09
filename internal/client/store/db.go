package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/migrations"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/dbx"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/filex"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// RunMigrations brings the kv_store schema up to date. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	var gooseDialect string
	switch dialect {
	case dbx.DialectSQLite:
		gooseDialect = "sqlite3"
	case dbx.DialectPostgres:
		gooseDialect = "postgres"
	default:
		return fmt.Errorf("unsupported database driver %q", dialect)
	}

	dir, err := fs.Sub(migrations.Migrations, string(dialect))
	if err != nil {
		return err
	}

	goose.SetBaseFS(dir)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenDatabase opens the database named by driver and dsn and migrates it.
// driver is "sqlite" (modernc.org/sqlite) or "pgx" (jackc/pgx stdlib).
func OpenDatabase(ctx context.Context, driver dbx.Dialect, dsn string) (*sql.DB, error) {
	if !driver.Valid() {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if driver == dbx.DialectSQLite {
		if path := filex.SQLitePath(dsn); path != "" {
			if err := filex.EnsureParentDir(path); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, err
	}

	if driver == dbx.DialectSQLite {
		// modernc serialises writers per file; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := RunMigrations(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}
