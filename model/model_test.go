package model

import (
	"testing"

	"pinkas/config"
)

func testModel() *Model {
	cfg := &config.Config{
		DefaultBusiness: "biz_001",
		Businesses: []config.Business{
			{ID: "biz_001", Name: "מאפיית הצפון"},
			{ID: "biz_002", Name: "קפה דרומי"},
		},
	}
	return NewModel(cfg, nil, nil, "test")
}

func TestCanSend(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		businessID string
		adminMode  bool
		status     Status
		expected   bool
	}{
		{"ready to send", "שלום", "biz_001", false, StatusIdle, true},
		{"empty text", "", "biz_001", false, StatusIdle, false},
		{"no business for regular user", "שלום", "", false, StatusIdle, false},
		{"admin needs no business", "שלום", "", true, StatusIdle, true},
		{"request in flight", "שלום", "biz_001", false, StatusStreaming, false},
		{"submitted counts as in flight", "שלום", "biz_001", false, StatusSubmitted, false},
		{"error state allows retry", "שלום", "biz_001", false, StatusError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel()
			m.BusinessID = tt.businessID
			m.AdminMode = tt.adminMode
			m.Status = tt.status

			if got := m.CanSend(tt.text); got != tt.expected {
				t.Errorf("CanSend(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestThinkingStatus(t *testing.T) {
	t.Run("empty while idle", func(t *testing.T) {
		m := testModel()
		if got := m.ThinkingStatus(); got != "" {
			t.Errorf("idle status: got %q", got)
		}
	})

	t.Run("generic label before the assistant answers", func(t *testing.T) {
		m := testModel()
		m.Status = StatusSubmitted
		m.Messages = append(m.Messages, NewUserMessage("מה ההכנסות?"), NewAssistantMessage())

		if got := m.ThinkingStatus(); got != "חושב..." {
			t.Errorf("status: got %q", got)
		}
	})

	t.Run("running tool names its status", func(t *testing.T) {
		m := testModel()
		m.Status = StatusStreaming
		assistant := NewAssistantMessage()
		assistant.UpsertToolPart(ToolPart{
			ToolCallID: "c1",
			ToolName:   "getMonthlySummary",
			State:      ToolInputAvailable,
		})
		m.Messages = append(m.Messages, NewUserMessage("מה ההכנסות?"), assistant)

		if got := m.ThinkingStatus(); got != "בודק נתונים חודשיים..." {
			t.Errorf("status: got %q", got)
		}
	})

	t.Run("visible text clears the label", func(t *testing.T) {
		m := testModel()
		m.Status = StatusStreaming
		assistant := NewAssistantMessage()
		assistant.AppendText("ההכנסות")
		m.Messages = append(m.Messages, NewUserMessage("מה ההכנסות?"), assistant)

		if got := m.ThinkingStatus(); got != "" {
			t.Errorf("status: got %q", got)
		}
	})

	t.Run("finished tool falls back to thinking", func(t *testing.T) {
		m := testModel()
		m.Status = StatusStreaming
		assistant := NewAssistantMessage()
		assistant.UpsertToolPart(ToolPart{
			ToolCallID: "c1",
			ToolName:   "getMonthlySummary",
			State:      ToolOutputAvailable,
		})
		m.Messages = append(m.Messages, NewUserMessage("מה ההכנסות?"), assistant)

		if got := m.ThinkingStatus(); got != "חושב..." {
			t.Errorf("status: got %q", got)
		}
	})
}

func TestCardFor(t *testing.T) {
	m := testModel()
	action := &ProposedAction{ToolCallID: "call_1", ActionType: ActionExpense}

	card := m.CardFor("msg_1", action)
	if card == nil || card.State != CardPending {
		t.Fatalf("new card: got %+v", card)
	}

	card.State = CardSuccess
	again := m.CardFor("msg_1", action)
	if again != card {
		t.Error("same message and call id must return the same card")
	}

	other := m.CardFor("msg_2", action)
	if other == card {
		t.Error("a different message must get its own card")
	}
	if other.State != CardPending {
		t.Errorf("fresh card state: got %v", other.State)
	}
}

func TestCancelStream(t *testing.T) {
	t.Run("empty container is dropped", func(t *testing.T) {
		m := testModel()
		m.Status = StatusStreaming
		m.Messages = append(m.Messages, NewUserMessage("שלום"), NewAssistantMessage())

		m.CancelStream()

		if m.Status != StatusReady {
			t.Errorf("status: got %v, want ready", m.Status)
		}
		if len(m.Messages) != 1 {
			t.Errorf("messages: got %d, want 1", len(m.Messages))
		}
	})

	t.Run("partial answer survives", func(t *testing.T) {
		m := testModel()
		m.Status = StatusStreaming
		assistant := NewAssistantMessage()
		assistant.AppendText("חלק מהתשובה")
		m.Messages = append(m.Messages, NewUserMessage("שלום"), assistant)

		m.CancelStream()

		if len(m.Messages) != 2 {
			t.Fatalf("messages: got %d, want 2", len(m.Messages))
		}
		if got := m.Messages[1].TextContent(); got != "חלק מהתשובה" {
			t.Errorf("partial text: got %q", got)
		}
	})

	t.Run("no-op when nothing is in flight", func(t *testing.T) {
		m := testModel()
		m.Status = StatusReady
		m.Messages = append(m.Messages, NewUserMessage("שלום"))

		m.CancelStream()

		if m.Status != StatusReady || len(m.Messages) != 1 {
			t.Errorf("state changed: %v, %d messages", m.Status, len(m.Messages))
		}
	})
}

func TestResetConversation(t *testing.T) {
	m := testModel()
	m.Messages = append(m.Messages, NewUserMessage("שלום"))
	m.SessionID = "sess_1"
	m.Status = StatusError
	m.LastError = "בום"
	m.CardFor("msg_1", &ProposedAction{ToolCallID: "c1"}).State = CardSuccess

	m.ResetConversation()

	if len(m.Messages) != 0 {
		t.Errorf("messages: got %d", len(m.Messages))
	}
	if m.SessionID != "" {
		t.Errorf("session id: got %q", m.SessionID)
	}
	if m.Status != StatusIdle {
		t.Errorf("status: got %v", m.Status)
	}
	if m.LastError != "" {
		t.Errorf("last error: got %q", m.LastError)
	}
	if card := m.CardFor("msg_1", &ProposedAction{ToolCallID: "c1"}); card.State != CardPending {
		t.Error("cards survived the reset")
	}
}

func TestSwitchBusiness(t *testing.T) {
	t.Run("same business keeps the conversation", func(t *testing.T) {
		m := testModel()
		m.Messages = append(m.Messages, NewUserMessage("שלום"))
		m.SessionID = "sess_1"

		m.SwitchBusiness("biz_001")

		if len(m.Messages) != 1 || m.SessionID != "sess_1" {
			t.Error("conversation reset on a same-business switch")
		}
	})

	t.Run("new business resets scope", func(t *testing.T) {
		m := testModel()
		m.Messages = append(m.Messages, NewUserMessage("שלום"))
		m.SessionID = "sess_1"

		m.SwitchBusiness("biz_002")

		if len(m.Messages) != 0 || m.SessionID != "" {
			t.Error("conversation kept across businesses")
		}
		if m.BusinessID != "biz_002" {
			t.Errorf("business id: got %q", m.BusinessID)
		}
		if m.BusinessName != "קפה דרומי" {
			t.Errorf("business name: got %q", m.BusinessName)
		}
	})

	t.Run("unknown business shows empty name", func(t *testing.T) {
		m := testModel()
		m.SwitchBusiness("biz_999")
		if m.BusinessName != "" {
			t.Errorf("business name: got %q", m.BusinessName)
		}
	})
}

func TestChatTurns(t *testing.T) {
	m := testModel()
	assistant := NewAssistantMessage()
	assistant.AppendText("ההכנסות היו ₪52,000")
	empty := NewAssistantMessage()
	m.Messages = append(m.Messages,
		NewUserMessage("מה ההכנסות?"),
		assistant,
		NewSystemMessage("שגיאה מקומית"),
		NewUserMessage("  "),
		empty,
	)

	turns := m.chatTurns()

	if len(turns) != 2 {
		t.Fatalf("turns: got %d, want 2", len(turns))
	}
	if turns[0].Role != RoleUser || turns[0].Content != "מה ההכנסות?" {
		t.Errorf("turn 0: %+v", turns[0])
	}
	if turns[1].Role != RoleAssistant || turns[1].Content != "ההכנסות היו ₪52,000" {
		t.Errorf("turn 1: %+v", turns[1])
	}
}
