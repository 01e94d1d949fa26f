package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/mediastudio/migrations"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New opens the database at dataSourceName. A bare path or ":memory:" is
// turned into a file: URI carrying the connection pragmas.
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", DSN(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers and keeps an in-memory
	// database shared by every caller.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{db}, nil
}

// DSN builds a modernc.org/sqlite data source name with foreign keys
// enabled and a busy timeout.
func DSN(dataSourceName string) string {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	dsn := dataSourceName
	switch {
	case dsn == ":memory:" || dsn == "":
		dsn = "file::memory:"
	case !strings.HasPrefix(dsn, "file:"):
		dsn = "file:" + dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragmas
	}
	return dsn + "?" + pragmas
}

// RunMigrations applies the embedded schema. It is safe to run repeatedly.
func (db *DB) RunMigrations() error {
	schema, err := migrations.FS.ReadFile(migrations.InitialSchema)
	if err != nil {
		return fmt.Errorf("failed to read migration: %w", err)
	}

	if _, err := db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}
