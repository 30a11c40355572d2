// Package runlog persists a record of every interpreted program run, in the
// style of a classroom submission log. The backing store is any database/sql
// engine reachable by DSN; sqlite is the zero-setup default.
package runlog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type Result struct {
	Source    string // file name, or "<inline>" / "<repl>"
	Status    string // "ok" or the error kind
	Message   string // error message, empty on success
	Duration  time.Duration
	OutputLen int
}

type Recorder struct {
	db     *sql.DB
	driver string
}

// Open connects to the store named by dsn, creating the runs table when it
// does not exist yet.
func Open(dsn string) (*Recorder, error) {
	driver, dataSource := DriverForDSN(dsn)

	db, err := sql.Open(driver, dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping run log database: %w", err)
	}

	r := &Recorder{db: db, driver: driver}
	if _, err := db.Exec(createTable[driver]); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}
	return r, nil
}

func (r *Recorder) Record(result Result) error {
	query := `INSERT INTO runs (source, status, message, duration_ms, output_len) VALUES (?, ?, ?, ?, ?)`
	if r.driver == "postgres" {
		query = `INSERT INTO runs (source, status, message, duration_ms, output_len) VALUES ($1, $2, $3, $4, $5)`
	}
	_, err := r.db.Exec(query,
		result.Source,
		result.Status,
		result.Message,
		result.Duration.Milliseconds(),
		result.OutputLen,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

func (r *Recorder) Close() error {
	return r.db.Close()
}

// DriverForDSN infers the database/sql driver from the DSN. A postgres:// or
// mysql:// scheme selects that driver (the mysql driver expects its DSN
// without the scheme); anything else is treated as a sqlite file path.
func DriverForDSN(dsn string) (driver, dataSource string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "mysql://"):
		return "mysql", strings.TrimPrefix(dsn, "mysql://")
	default:
		return "sqlite3", dsn
	}
}

var createTable = map[string]string{
	"sqlite3": `CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		status TEXT NOT NULL,
		message TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		output_len INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	"mysql": `CREATE TABLE IF NOT EXISTS runs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		source VARCHAR(255) NOT NULL,
		status VARCHAR(32) NOT NULL,
		message TEXT NOT NULL,
		duration_ms BIGINT NOT NULL,
		output_len BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	"postgres": `CREATE TABLE IF NOT EXISTS runs (
		id BIGSERIAL PRIMARY KEY,
		source TEXT NOT NULL,
		status TEXT NOT NULL,
		message TEXT NOT NULL,
		duration_ms BIGINT NOT NULL,
		output_len BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}
