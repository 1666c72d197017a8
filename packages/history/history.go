// Package history keeps an optional SQLite log of completed dispatches.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS dispatches (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	namespace  TEXT    NOT NULL,
	mode       TEXT    NOT NULL,
	request    TEXT    NOT NULL,
	method     TEXT    NOT NULL,
	url        TEXT    NOT NULL,
	status     INTEGER NOT NULL,
	reason     TEXT    NOT NULL,
	elapsed_ms REAL    NOT NULL,
	artifact   TEXT    NOT NULL,
	created_at TEXT    NOT NULL
)`

// Entry is one recorded dispatch.
type Entry struct {
	ID        int64
	Namespace string
	Mode      string
	Request   string
	Method    string
	URL       string
	Status    int
	Reason    string
	ElapsedMs float64
	Artifact  string
	CreatedAt time.Time
}

// Recorder is implemented by anything that accepts dispatch entries.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
}

// DB is a history database.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path. Both plain paths and
// "sqlite://" / "sqlite:" prefixed paths are accepted.
func Open(path string) (*DB, error) {
	path = dataSource(path)
	if path == "" {
		return nil, fmt.Errorf("history database path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}

	return &DB{db: db, now: time.Now}, nil
}

func dataSource(path string) string {
	path = strings.TrimSpace(path)
	if p, ok := strings.CutPrefix(path, "sqlite://"); ok {
		return p
	}
	if p, ok := strings.CutPrefix(path, "sqlite:"); ok {
		return p
	}
	return path
}

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Record appends e. A zero CreatedAt is set to the current time.
func (d *DB) Record(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = d.now()
	}
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO dispatches (namespace, mode, request, method, url, status, reason, elapsed_ms, artifact, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Namespace, e.Mode, e.Request, e.Method, e.URL, e.Status, e.Reason, e.ElapsedMs, e.Artifact,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record dispatch: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

// Recent returns up to limit entries, newest first. A limit of zero or
// less returns every entry.
func (d *DB) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	query := `SELECT id, namespace, mode, request, method, url, status, reason, elapsed_ms, artifact, created_at
		FROM dispatches ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		var created string
		if err := rows.Scan(&e.ID, &e.Namespace, &e.Mode, &e.Request, &e.Method, &e.URL,
			&e.Status, &e.Reason, &e.ElapsedMs, &e.Artifact, &created); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("invalid timestamp %q in history: %w", created, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}
