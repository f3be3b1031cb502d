package database

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/timecapsule/capsule/internal/config"
)

type DB struct {
	*sqlx.DB
}

// Connect opens the SQL credential store named by a state URL.
// Supported schemes are sqlite://<path>, postgres:// and postgresql://.
func Connect(ctx context.Context, stateURL string) (*DB, error) {
	driver, dsn, err := ParseURL(stateURL)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		path, _, _ := strings.Cut(dsn, "?")
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create state directory %s: %w", dir, err)
			}
		}
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(config.DBMaxOpenConns)
		db.SetMaxIdleConns(config.DBMaxIdleConns)
	}
	db.SetConnMaxLifetime(config.DBConnMaxLifetime)

	return &DB{db}, nil
}

// ParseURL maps a state URL to a database/sql driver name and DSN.
func ParseURL(stateURL string) (driver, dsn string, err error) {
	scheme, rest, ok := strings.Cut(stateURL, "://")
	if !ok {
		return "", "", fmt.Errorf("invalid state url %q", stateURL)
	}

	switch scheme {
	case "sqlite":
		if rest == "" {
			return "", "", fmt.Errorf("sqlite state url needs a file path")
		}
		path, query, _ := strings.Cut(rest, "?")
		values, err := url.ParseQuery(query)
		if err != nil {
			return "", "", fmt.Errorf("parse sqlite options: %w", err)
		}
		if !values.Has("_pragma") {
			values.Add("_pragma", "busy_timeout(5000)")
			values.Add("_pragma", "journal_mode(WAL)")
		}
		return "sqlite", path + "?" + values.Encode(), nil
	case "postgres", "postgresql":
		return "postgres", stateURL, nil
	default:
		return "", "", fmt.Errorf("unsupported sql state scheme %q", scheme)
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS client_state (
	name       TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at %s NOT NULL
)`

// Migrate creates the client_state table when it does not exist.
func (db *DB) Migrate(ctx context.Context) error {
	timestampType := "DATETIME"
	if db.DriverName() == "postgres" {
		timestampType = "TIMESTAMPTZ"
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(schema, timestampType)); err != nil {
		return fmt.Errorf("migrate client_state: %w", err)
	}
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.DB.Close()
}
