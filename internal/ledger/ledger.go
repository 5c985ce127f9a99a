// Package ledger persists a record of every pipeline run in a local SQLite
// database, so repeated invocations over the same charts directory are
// auditable: which charts were processed, which artifacts were written, and
// whether the text round trip held.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    chart        TEXT NOT NULL,
    person       TEXT NOT NULL,
    system       TEXT NOT NULL,
    status       TEXT NOT NULL,
    text_path    TEXT NOT NULL DEFAULT '',
    json_path    TEXT NOT NULL DEFAULT '',
    warnings     INTEGER NOT NULL DEFAULT 0,
    roundtrip_ok INTEGER NOT NULL DEFAULT 0,
    error        TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Run is one ledger row: a single chart/system pipeline execution.
type Run struct {
	ID          string
	Chart       string // chart source file
	Person      string
	System      string
	Status      string
	TextPath    string
	JSONPath    string
	Warnings    int
	RoundTripOK bool
	Error       string
	CreatedAt   time.Time
}

// Ledger wraps a local SQLite database in WAL mode.
type Ledger struct {
	db *sql.DB
}

// Open opens (or creates) the ledger database at dbPath, enables WAL mode
// and a busy timeout, and creates the schema if it does not exist.
func Open(ctx context.Context, dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("ledger: open database: %w", err)
	}

	// One connection: SQLite has a single writer, and pooled connections
	// would each need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: create schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Record inserts one run row.
func (l *Ledger) Record(ctx context.Context, r Run) error {
	const q = `
		INSERT INTO runs (id, chart, person, system, status, text_path, json_path, warnings, roundtrip_ok, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	rt := 0
	if r.RoundTripOK {
		rt = 1
	}
	if _, err := l.db.ExecContext(ctx, q,
		r.ID, r.Chart, r.Person, r.System, r.Status,
		r.TextPath, r.JSONPath, r.Warnings, rt, r.Error); err != nil {
		return fmt.Errorf("ledger: record run %q (%s/%s): %w", r.ID, r.Chart, r.System, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Run, error) {
	const q = `
		SELECT id, chart, person, system, status, text_path, json_path, warnings, roundtrip_ok, error, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`
	rows, err := l.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: query runs: %w", err)
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var r Run
		var rt int
		var ts string
		if err := rows.Scan(&r.ID, &r.Chart, &r.Person, &r.System, &r.Status,
			&r.TextPath, &r.JSONPath, &r.Warnings, &rt, &r.Error, &ts); err != nil {
			return nil, fmt.Errorf("ledger: scan run: %w", err)
		}
		r.RoundTripOK = rt != 0
		createdAt, parseErr := parseTimestamp(ts)
		if parseErr != nil {
			return nil, fmt.Errorf("ledger: parse run timestamp: %w", parseErr)
		}
		r.CreatedAt = createdAt
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: iterate runs: %w", err)
	}
	return result, nil
}

// timestampFormats lists the formats SQLite drivers may produce for
// CURRENT_TIMESTAMP. modernc.org/sqlite typically returns RFC 3339, while
// canonical SQLite returns the space-separated DateTime format.
var timestampFormats = []string{
	time.RFC3339,
	time.DateTime,
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}
