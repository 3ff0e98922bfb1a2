package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Decision values for audit entries.
const (
	DecisionConfirmed = "confirmed"
	DecisionRejected  = "rejected"
)

// Outcome values for audit entries.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

// Entry is one recorded action decision: what the assistant proposed,
// what the user decided, and how execution went.
type Entry struct {
	ID         int64
	Timestamp  time.Time
	BusinessID string
	SessionID  string
	ActionType string
	Decision   string
	Outcome    string
	Message    string
	Payload    string // submitted payload as JSON, for later review
}

// AuditLog is the local record of confirmed and rejected actions. It
// exists so a bookkeeper can always answer "what did the assistant
// change, and when" without trusting the server's history.
type AuditLog struct {
	db *sql.DB
}

func OpenAuditLog(dataDir string) (*AuditLog, error) {
	dbPath := filepath.Join(dataDir, "audit.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log := &AuditLog{db: db}

	if err := log.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return log, nil
}

func (a *AuditLog) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		business_id TEXT,
		session_id TEXT,
		action_type TEXT NOT NULL,
		decision TEXT NOT NULL,
		outcome TEXT,
		message TEXT,
		payload TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_entries(timestamp);
	CREATE INDEX IF NOT EXISTS idx_audit_business ON audit_entries(business_id);
	`

	_, err := a.db.Exec(schema)
	return err
}

// Record appends one decision to the log.
func (a *AuditLog) Record(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	query := `
	INSERT INTO audit_entries (timestamp, business_id, session_id, action_type, decision, outcome, message, payload)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := a.db.Exec(query,
		entry.Timestamp,
		entry.BusinessID,
		entry.SessionID,
		entry.ActionType,
		entry.Decision,
		entry.Outcome,
		entry.Message,
		entry.Payload,
	)

	return err
}

// Recent returns the newest entries, most recent first.
func (a *AuditLog) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, timestamp, business_id, session_id, action_type, decision, outcome, message, payload
	FROM audit_entries
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	rows, err := a.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.BusinessID,
			&entry.SessionID,
			&entry.ActionType,
			&entry.Decision,
			&entry.Outcome,
			&entry.Message,
			&entry.Payload,
		)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// RecentForBusiness returns the newest entries for one business.
func (a *AuditLog) RecentForBusiness(businessID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, timestamp, business_id, session_id, action_type, decision, outcome, message, payload
	FROM audit_entries
	WHERE business_id = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	rows, err := a.db.Query(query, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.BusinessID,
			&entry.SessionID,
			&entry.ActionType,
			&entry.Decision,
			&entry.Outcome,
			&entry.Message,
			&entry.Payload,
		)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (a *AuditLog) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
