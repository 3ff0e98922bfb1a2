package storage

import (
	"testing"
	"time"
)

func openTestLog(t *testing.T) *AuditLog {
	t.Helper()
	log, err := OpenAuditLog(t.TempDir())
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestAuditRecordAndRecent(t *testing.T) {
	log := openTestLog(t)

	base := time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)
	entries := []Entry{
		{
			Timestamp:  base,
			BusinessID: "biz_001",
			SessionID:  "sess_1",
			ActionType: "expense",
			Decision:   DecisionConfirmed,
			Outcome:    OutcomeSuccess,
			Message:    "נקלט בהצלחה",
			Payload:    `{"supplier_name":"תנובה","total_amount":585}`,
		},
		{
			Timestamp:  base.Add(2 * time.Minute),
			BusinessID: "biz_002",
			SessionID:  "sess_2",
			ActionType: "payment",
			Decision:   DecisionRejected,
			Outcome:    OutcomeRejected,
		},
		{
			Timestamp:  base.Add(time.Minute),
			BusinessID: "biz_001",
			SessionID:  "sess_1",
			ActionType: "daily_entry",
			Decision:   DecisionConfirmed,
			Outcome:    OutcomeError,
			Message:    "שגיאה בביצוע הפעולה",
		},
	}
	for _, entry := range entries {
		if err := log.Record(entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := log.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("entries: got %d, want 3", len(got))
	}

	// Newest first, regardless of insertion order.
	if got[0].ActionType != "payment" || got[1].ActionType != "daily_entry" || got[2].ActionType != "expense" {
		t.Errorf("order: %s, %s, %s", got[0].ActionType, got[1].ActionType, got[2].ActionType)
	}

	first := got[2]
	if first.BusinessID != "biz_001" || first.SessionID != "sess_1" {
		t.Errorf("scope: %+v", first)
	}
	if first.Decision != DecisionConfirmed || first.Outcome != OutcomeSuccess {
		t.Errorf("decision: %+v", first)
	}
	if first.Message != "נקלט בהצלחה" {
		t.Errorf("message: got %q", first.Message)
	}
	if first.Payload != `{"supplier_name":"תנובה","total_amount":585}` {
		t.Errorf("payload: got %q", first.Payload)
	}
	if !first.Timestamp.Equal(base) {
		t.Errorf("timestamp: got %v, want %v", first.Timestamp, base)
	}
	if first.ID == 0 {
		t.Error("id not assigned")
	}
}

func TestAuditRecentLimit(t *testing.T) {
	log := openTestLog(t)

	base := time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := log.Record(Entry{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			ActionType: "expense",
			Decision:   DecisionConfirmed,
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := log.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries: got %d, want 2", len(got))
	}
	if !got[0].Timestamp.After(got[1].Timestamp) {
		t.Error("limit did not keep the newest entries")
	}

	all, err := log.Recent(0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("default limit: got %d entries, want 5", len(all))
	}
}

func TestAuditRecentForBusiness(t *testing.T) {
	log := openTestLog(t)

	for _, business := range []string{"biz_001", "biz_002", "biz_001"} {
		err := log.Record(Entry{
			BusinessID: business,
			ActionType: "expense",
			Decision:   DecisionConfirmed,
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := log.RecentForBusiness("biz_001", 10)
	if err != nil {
		t.Fatalf("recent for business: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries: got %d, want 2", len(got))
	}
	for _, entry := range got {
		if entry.BusinessID != "biz_001" {
			t.Errorf("foreign entry: %+v", entry)
		}
	}
}

func TestAuditRecordFillsTimestamp(t *testing.T) {
	log := openTestLog(t)

	if err := log.Record(Entry{ActionType: "expense", Decision: DecisionConfirmed}); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := log.Recent(1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].Timestamp.IsZero() {
		t.Errorf("timestamp not filled: %+v", got)
	}
}

func TestAuditSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	log, err := OpenAuditLog(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	err = log.Record(Entry{
		BusinessID: "biz_001",
		ActionType: "expense",
		Decision:   DecisionConfirmed,
		Outcome:    OutcomeSuccess,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenAuditLog(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].BusinessID != "biz_001" {
		t.Errorf("entries after reopen: %+v", got)
	}
}
