// Package audit records successful API writes in the audit_log table and
// reads them back for administrators.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the trail.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Entry is a single audit trail row.
type Entry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	Actor      string    `json:"actor"`
	RequestID  string    `json:"request_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filter narrows a listing. Empty fields are ignored.
type Filter struct {
	Action     string
	EntityType string
	Actor      string
}

// timestampLayout is fixed width so created_at sorts lexically. Times are
// stored in UTC.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Recorder appends entries to the trail.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
}

// SQLiteRepository stores the trail in SQLite.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a new audit repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// Record inserts entry. The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = "aud-" + uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, action, entity_type, entity_id, actor, request_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.EntityType, entry.EntityID, entry.Actor,
		nullableString(entry.RequestID),
		entry.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// nullableString returns nil for empty strings, or the string otherwise.
// Used for nullable TEXT columns in SQLite.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns every entry matching filter, most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) ([]Entry, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.EntityType != "" {
		conditions = append(conditions, "entity_type = ?")
		args = append(args, filter.EntityType)
	}
	if filter.Actor != "" {
		conditions = append(conditions, "actor = ?")
		args = append(args, filter.Actor)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	// WHERE is built from fixed column names with ? placeholders.
	query := "SELECT id, action, entity_type, entity_id, actor, request_id, created_at FROM audit_log" +
		where + " ORDER BY created_at DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e         Entry
			requestID sql.NullString
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID,
			&e.Actor, &requestID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.RequestID = requestID.String

		t, err := time.Parse(timestampLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing audit timestamp %q: %w", createdAt, err)
		}
		e.CreatedAt = t

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	return entries, nil
}
