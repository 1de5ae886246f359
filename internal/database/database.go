package database

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

//go:embed schema/*.sql
var schemaFS embed.FS

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Open creates and configures a connection pool for driver and applies the
// schema. MySQL is the production store; SQLite serves local runs and tests.
func Open(driver, dsn string, log *zap.Logger) (*sql.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// 1. --- Normalize the DSN per driver ---
	switch driver {
	case DriverMySQL:
		if dsn == "" {
			return nil, fmt.Errorf("database: mysql needs a DSN")
		}
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	// 2. --- Open the pool ---
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// 3. --- Pool settings ---
	if driver == DriverSQLite {
		// One writer at a time; the pool would otherwise hit SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	// 4. --- Verify the connection ---
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", driver, err)
	}

	// 5. --- Schema ---
	if err := Migrate(db, driver); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("database connection pool established", zap.String("driver", driver))
	return db, nil
}

func sqliteDSN(path string) string {
	if path == "" {
		path = "catalog-server.db"
	}
	if path == ":memory:" {
		return "file::memory:?cache=shared&_foreign_keys=on"
	}
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
}

// Migrate runs the embedded schema for driver. Every statement is
// idempotent, so it is safe on every start.
func Migrate(db *sql.DB, driver string) error {
	raw, err := schemaFS.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return fmt.Errorf("database: no schema for %q: %w", driver, err)
	}
	for _, stmt := range strings.Split(string(raw), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("database: migrate: %w", err)
		}
	}
	return nil
}
