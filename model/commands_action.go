package model

import (
	"context"
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"

	"pinkas/config"
	"pinkas/storage"
)

// ConfirmAction submits a proposed action to the execution endpoint. The
// card transition gates the request: a terminal card, an in-flight card or
// an unresolved supplier all make this a no-op with no network call.
func (m *Model) ConfirmAction(messageID string, action *ProposedAction) tea.Cmd {
	card := m.CardFor(messageID, action)
	if !card.BeginConfirm() {
		return nil
	}

	backend := m.Backend
	audit := m.AuditLog
	sessionID := m.SessionID
	toolCallID := action.ToolCallID
	actionType := action.ActionType
	businessID := action.BusinessID
	if businessID == "" {
		businessID = m.BusinessID
	}
	payload := action.BuildExecutePayload()

	return func() tea.Msg {
		result, err := backend.ExecuteAction(context.Background(), payload)

		if audit != nil {
			outcome := storage.OutcomeError
			message := ""
			if err == nil && result != nil {
				message = result.Message
				if result.Success {
					outcome = storage.OutcomeSuccess
				} else {
					message = result.Error
				}
			}
			recErr := audit.Record(storage.Entry{
				BusinessID: businessID,
				SessionID:  sessionID,
				ActionType: actionType,
				Decision:   storage.DecisionConfirmed,
				Outcome:    outcome,
				Message:    message,
				Payload:    encodePayload(payload),
			})
			if recErr != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[audit] record failed: %v", recErr)
			}
		}

		return ActionResultMsg{
			MessageID:  messageID,
			ToolCallID: toolCallID,
			Result:     result,
			Err:        err,
		}
	}
}

func encodePayload(payload map[string]any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}

// HandleActionResult applies the execution outcome to its card. Results
// for cards that were cleared away in the meantime are dropped.
func (m *Model) HandleActionResult(msg ActionResultMsg) {
	card, ok := m.cards[msg.MessageID+":"+msg.ToolCallID]
	if !ok {
		return
	}

	if msg.Err != nil || msg.Result == nil {
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[action] execute failed: %v", msg.Err)
		}
		card.Complete(false, "")
		return
	}

	message := msg.Result.Message
	if !msg.Result.Success && msg.Result.Error != "" {
		message = msg.Result.Error
	}
	card.Complete(msg.Result.Success, message)
}

// RejectAction dismisses a proposed action locally. No server call is
// made; the decision is still written to the audit trail.
func (m *Model) RejectAction(messageID string, action *ProposedAction) tea.Cmd {
	card := m.CardFor(messageID, action)
	if !card.Reject() {
		return nil
	}

	if m.AuditLog == nil {
		return nil
	}
	audit := m.AuditLog
	sessionID := m.SessionID
	actionType := action.ActionType
	businessID := action.BusinessID
	if businessID == "" {
		businessID = m.BusinessID
	}
	payload := action.BuildExecutePayload()

	return func() tea.Msg {
		err := audit.Record(storage.Entry{
			BusinessID: businessID,
			SessionID:  sessionID,
			ActionType: actionType,
			Decision:   storage.DecisionRejected,
			Outcome:    storage.OutcomeRejected,
			Payload:    encodePayload(payload),
		})
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[audit] record failed: %v", err)
		}
		return nil
	}
}

// LoadAuditEntries fetches recent action decisions for the audit view.
func (m *Model) LoadAuditEntries(limit int) tea.Cmd {
	if m.AuditLog == nil {
		return func() tea.Msg {
			return AuditEntriesMsg{}
		}
	}
	audit := m.AuditLog
	names := m.Config
	return func() tea.Msg {
		entries, err := audit.Recent(limit)
		if err != nil {
			return AuditEntriesMsg{Err: err}
		}
		views := make([]AuditEntryView, 0, len(entries))
		for _, e := range entries {
			business := e.BusinessID
			if names != nil {
				if name := names.BusinessName(e.BusinessID); name != "" {
					business = name
				}
			}
			views = append(views, AuditEntryView{
				Timestamp:  e.Timestamp.Format("02/01/2006 15:04"),
				Business:   business,
				ActionType: ActionTypeTitle(e.ActionType),
				Decision:   e.Decision,
				Outcome:    e.Outcome,
			})
		}
		return AuditEntriesMsg{Entries: views}
	}
}
