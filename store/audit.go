package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"venuespace-cli/booking"
)

//go:embed audit_schema.sql
var auditSchema string

// AuditEntry is one persisted booking status change.
type AuditEntry struct {
	Seq       int64
	ID        string
	BookingID string
	From      booking.Status
	To        booking.Status
	Event     booking.Event
	At        time.Time
}

// AuditLog appends booking lifecycle transitions to an SQLite file.
type AuditLog struct {
	db *sql.DB
}

// DefaultAuditPath is audit.db under the cache dir.
func DefaultAuditPath() (string, error) {
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audit.db"), nil
}

// OpenAudit creates or opens the audit database at path.
func OpenAudit(path string) (*AuditLog, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect audit database: %w", err)
	}

	// single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply audit schema: %w", err)
	}

	return &AuditLog{db: db}, nil
}

func (a *AuditLog) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// RecordTransition appends change for bookingID.
func (a *AuditLog) RecordTransition(ctx context.Context, bookingID string, change booking.Change) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO booking_transitions (id, booking_id, from_status, to_status, event, at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		uuid.NewString(),
		bookingID,
		string(change.From),
		string(change.To),
		string(change.Event),
		change.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record transition: %w", err)
	}
	return nil
}

// List returns the transitions of bookingID in write order, or of every
// booking when bookingID is empty.
func (a *AuditLog) List(ctx context.Context, bookingID string) ([]AuditEntry, error) {
	query := `SELECT seq, id, booking_id, from_status, to_status, event, at FROM booking_transitions`
	var args []any
	if bookingID != "" {
		query += ` WHERE booking_id = ?`
		args = append(args, bookingID)
	}
	query += ` ORDER BY seq`

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var (
			e                  AuditEntry
			from, to, ev, when string
		)
		if err := rows.Scan(&e.Seq, &e.ID, &e.BookingID, &from, &to, &ev, &when); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		e.From = booking.Status(from)
		e.To = booking.Status(to)
		e.Event = booking.Event(ev)
		e.At, err = time.Parse(time.RFC3339Nano, when)
		if err != nil {
			return nil, fmt.Errorf("parse transition time %q: %w", when, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	return entries, nil
}
