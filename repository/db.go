package repository

import (
	"database/sql"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenPostgres opens a bun handle against a Postgres instance reachable via
// dsn. The returned handle is meant to be created once at process start and
// closed once at shutdown; concurrent callers share its pool.
func OpenPostgres(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// OpenSQLite opens a bun handle against a SQLite database, used by tests and
// the example program.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; a single connection avoids table-lock
	// errors when the shared in-memory DSN is used from tests.
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
