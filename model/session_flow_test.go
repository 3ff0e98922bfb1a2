package model_test

import (
	"context"
	"testing"
	"time"

	"pinkas/api/testutil"
	"pinkas/model"
)

func TestClearChatDeletesSession(t *testing.T) {
	mock := testutil.NewMockBackend()
	deleted := ""
	mock.DeleteSessionFunc = func(ctx context.Context, sessionID string) error {
		deleted = sessionID
		return nil
	}

	m := newTestModel(mock)
	m.SessionID = "sess_1"
	m.Messages = append(m.Messages, model.NewUserMessage("שלום"))
	m.Status = model.StatusReady

	cmd := m.ClearChat()
	if cmd == nil {
		t.Fatal("no delete command for a persisted session")
	}

	// Local state is already clean before the server is asked.
	if len(m.Messages) != 0 || m.SessionID != "" {
		t.Error("local conversation not cleared")
	}
	if deleted != "" {
		t.Error("delete ran synchronously")
	}

	if _, ok := cmd().(model.SessionDeletedMsg); !ok {
		t.Fatal("clear command returned the wrong message type")
	}
	if deleted != "sess_1" {
		t.Errorf("deleted session: got %q, want sess_1", deleted)
	}
}

func TestClearChatWithoutSession(t *testing.T) {
	m := newTestModel(testutil.NewMockBackend())
	m.Messages = append(m.Messages, model.NewUserMessage("שלום"))

	if cmd := m.ClearChat(); cmd != nil {
		t.Error("delete command issued with no session to delete")
	}
	if len(m.Messages) != 0 {
		t.Error("local conversation not cleared")
	}
}

func TestLoadHistoryRestoresLatestSession(t *testing.T) {
	mock := testutil.NewMockBackend()
	requestedBusiness := ""
	mock.LatestSessionFunc = func(ctx context.Context, businessID string) (*model.SessionHistory, error) {
		requestedBusiness = businessID
		return &model.SessionHistory{
			SessionID: "sess_7",
			Title:     "הכנסות מאי",
			Messages: []model.PersistedMessage{
				{ID: "m1", Role: "user", Content: "מה היו ההכנסות במאי?", Timestamp: time.Now()},
				{ID: "m2", Role: "assistant", Content: "ההכנסות היו ₪52,000", Timestamp: time.Now()},
			},
		}, nil
	}

	m := newTestModel(mock)
	cmd := m.LoadHistory()
	if !m.LoadingHistory {
		t.Error("loading flag not raised")
	}

	msg, ok := cmd().(model.HistoryLoadedMsg)
	if !ok {
		t.Fatal("history command returned the wrong message type")
	}
	m.HandleHistoryLoaded(msg)

	if requestedBusiness != "biz_001" {
		t.Errorf("requested business: got %q", requestedBusiness)
	}
	if m.LoadingHistory {
		t.Error("loading flag still raised")
	}
	if m.SessionID != "sess_7" {
		t.Errorf("session id: got %q", m.SessionID)
	}
	if len(m.Messages) != 2 {
		t.Fatalf("messages: got %d, want 2", len(m.Messages))
	}
	if m.Status != model.StatusReady {
		t.Errorf("status: got %v, want ready", m.Status)
	}
}
