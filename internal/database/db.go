package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported dialects. The SQL issued by the repository uses $N placeholders,
// which both engines accept; only the DDL differs.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Open connects to the database named by url. A postgres:// or postgresql://
// URL selects Postgres; anything else is treated as a SQLite file path.
// Returns the pool and the dialect it speaks.
func Open(ctx context.Context, url string, poolSize int) (*sql.DB, string, error) {
	dialect := DialectSQLite
	driver := "sqlite"
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		dialect = DialectPostgres
		driver = "postgres"
	}
	db, err := sql.Open(driver, url)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// single writer, prevents SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(poolSize)
		db.SetMaxIdleConns(poolSize / 2)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, dialect, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id         TEXT NOT NULL,
	title           TEXT NOT NULL,
	description     TEXT,
	status          TEXT NOT NULL DEFAULT 'open',
	priority        TEXT,
	tags            TEXT,
	due_date        DATETIME,
	is_recurring    BOOLEAN NOT NULL DEFAULT FALSE,
	recurrence_rule TEXT,
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id              BIGSERIAL PRIMARY KEY,
	user_id         TEXT NOT NULL,
	title           TEXT NOT NULL,
	description     TEXT,
	status          TEXT NOT NULL DEFAULT 'open',
	priority        TEXT,
	tags            TEXT,
	due_date        TIMESTAMPTZ,
	is_recurring    BOOLEAN NOT NULL DEFAULT FALSE,
	recurrence_rule TEXT,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
`

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks (priority)`,
}

// Migrate creates the tasks table and its indexes if they do not exist.
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	schema := sqliteSchema
	if dialect == DialectPostgres {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
