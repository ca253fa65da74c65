package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Open connects to the configured database and brings the schema up to
// date. Supported drivers: "sqlite" (default; file path or memory DSN)
// and "pgx" for Postgres. All queries use $N placeholders, which both
// drivers accept.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "sqlite", "pgx":
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrateUp(db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateUp(db *sql.DB, driver string) error {
	var (
		drv  database.Driver
		dir  string
		name string
		err  error
	)
	if driver == "pgx" {
		drv, err = pgmigrate.WithInstance(db, &pgmigrate.Config{})
		dir, name = "migrations/postgres", "postgres"
	} else {
		drv, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
		dir, name = "migrations/sqlite", "sqlite"
	}
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, name, drv)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
