package database

import (
	"database/sql"
	"fmt"
	stdlog "log"

	"github.com/username/spendfolio/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

const schema = `
	CREATE TABLE IF NOT EXISTS compile_runs (
		run_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		file_count INTEGER NOT NULL DEFAULT 0,
		record_count INTEGER NOT NULL DEFAULT 0,
		error_count INTEGER NOT NULL DEFAULT 0,
		failure_policy TEXT NOT NULL DEFAULT 'isolate'
	);

	CREATE INDEX IF NOT EXISTS idx_compile_runs_session ON compile_runs(session_id, started_at);

	CREATE TABLE IF NOT EXISTS compile_file_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		file_name TEXT NOT NULL,
		message TEXT NOT NULL,
		FOREIGN KEY(run_id) REFERENCES compile_runs(run_id) ON DELETE CASCADE
	);
	`

func InitDB(databasePath string) {
	db, err := Open(databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}
	DB = db
	logger.L.Info("Database tables ensured/created.", "databasePath", databasePath)
}

// Open opens the sqlite database at path and applies the schema. Use ":memory:" in tests.
func Open(databasePath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates missing tables and adds columns introduced after the first release.
func Migrate(db *sql.DB) error {
	logger.L.Info("Checking database migrations")
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return migrateCompileRuns(db)
}

func migrateCompileRuns(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(compile_runs)")
	if err != nil {
		return fmt.Errorf("error querying table schema for compile_runs: %w", err)
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			return fmt.Errorf("error scanning column info for compile_runs: %w", err)
		}
		columnExists[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over column info for compile_runs: %w", err)
	}

	if !columnExists["failure_policy"] {
		if _, err := db.Exec("ALTER TABLE compile_runs ADD COLUMN failure_policy TEXT NOT NULL DEFAULT 'isolate'"); err != nil {
			return fmt.Errorf("error adding failure_policy column: %w", err)
		}
		logger.L.Info("Added 'failure_policy' column to 'compile_runs' table")
	}
	return nil
}
