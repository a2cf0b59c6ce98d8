package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mayankeq/checkly-mcp/infrastructure/security/audit"
)

// AuditStore is a SQLite-backed audit.Logger.
type AuditStore struct {
	db     *sql.DB
	config Config
}

// Ensure AuditStore implements audit.Logger.
var _ audit.Logger = (*AuditStore)(nil)

// NewAuditStore opens the database and prepares the audit table.
func NewAuditStore(opts ...Option) (*AuditStore, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	store := &AuditStore{db: db, config: cfg}

	if cfg.AutoMigrate {
		if err := store.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return store, nil
}

func (s *AuditStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS audit_events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			timestamp INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			call_id TEXT NOT NULL DEFAULT '',
			tool_name TEXT NOT NULL,
			check_id TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL DEFAULT '',
			success INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			duration_ns INTEGER NOT NULL DEFAULT 0,
			input_hash TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_audit_events_timestamp ON audit_events(timestamp);
		CREATE INDEX IF NOT EXISTS idx_audit_events_check ON audit_events(check_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// Log records an event.
func (s *AuditStore) Log(ctx context.Context, event audit.Event) error {
	event = audit.Prepare(event)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events
			(id, timestamp, event_type, call_id, tool_name, check_id, outcome, success, error, duration_ns, input_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		event.ID,
		event.Timestamp.UnixNano(),
		string(event.EventType),
		event.CallID,
		event.ToolName,
		event.CheckID,
		event.Outcome,
		event.Success,
		event.Error,
		int64(event.Duration),
		event.InputHash,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Query returns matching events oldest first. A positive Limit keeps the
// most recent matches.
func (s *AuditStore) Query(ctx context.Context, filter audit.Filter) ([]audit.Event, error) {
	var (
		where []string
		args  []any
	)

	if !filter.StartTime.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, filter.StartTime.UnixNano())
	}
	if !filter.EndTime.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, filter.EndTime.UnixNano())
	}
	if len(filter.EventTypes) > 0 {
		marks := make([]string, len(filter.EventTypes))
		for i, t := range filter.EventTypes {
			marks[i] = "?"
			args = append(args, string(t))
		}
		where = append(where, "event_type IN ("+strings.Join(marks, ", ")+")")
	}
	if filter.ToolName != "" {
		where = append(where, "tool_name = ?")
		args = append(args, filter.ToolName)
	}
	if filter.CheckID != "" {
		where = append(where, "check_id = ?")
		args = append(args, filter.CheckID)
	}
	if filter.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, filter.Outcome)
	}
	if filter.Success != nil {
		where = append(where, "success = ?")
		args = append(args, *filter.Success)
	}

	query := `
		SELECT id, timestamp, event_type, call_id, tool_name, check_id, outcome, success, error, duration_ns, input_hash
		FROM audit_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, seq DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []audit.Event
	for rows.Next() {
		var (
			e         audit.Event
			ts        int64
			eventType string
			duration  int64
		)
		if err := rows.Scan(&e.ID, &ts, &eventType, &e.CallID, &e.ToolName, &e.CheckID,
			&e.Outcome, &e.Success, &e.Error, &duration, &e.InputHash); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Timestamp = time.Unix(0, ts).UTC()
		e.EventType = audit.EventType(eventType)
		e.Duration = time.Duration(duration)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read audit events: %w", err)
	}

	// Rows were read newest first so LIMIT keeps the most recent.
	slices.Reverse(events)
	return events, nil
}

// Close closes the database connection.
func (s *AuditStore) Close() error {
	return s.db.Close()
}
