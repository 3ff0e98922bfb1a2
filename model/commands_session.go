package model

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"pinkas/config"
)

// LoadHistory fetches the most recent session for the current business so
// the conversation survives restarts. While the fetch runs the model is
// marked LoadingHistory and input should be held back.
func (m *Model) LoadHistory() tea.Cmd {
	backend := m.Backend
	businessID := m.BusinessID
	m.LoadingHistory = true

	return func() tea.Msg {
		history, err := backend.LatestSession(context.Background(), businessID)
		return HistoryLoadedMsg{History: history, Err: err}
	}
}

// HandleHistoryLoaded hydrates the conversation from a restored session.
// A fetch failure falls back to an empty conversation rather than an
// error state; the user can simply start chatting.
func (m *Model) HandleHistoryLoaded(msg HistoryLoadedMsg) {
	m.LoadingHistory = false

	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[session] history restore failed, starting empty: %v", msg.Err)
		}
		return
	}
	if msg.History == nil {
		return
	}

	m.SessionID = msg.History.SessionID
	m.Messages = m.Messages[:0]
	for _, pm := range msg.History.Messages {
		hydrated, ok := hydrateMessage(pm)
		if !ok {
			continue
		}
		m.Messages = append(m.Messages, hydrated)
	}
	if len(m.Messages) > 0 {
		m.Status = StatusReady
	}
}

// hydrateMessage converts a persisted message back into a renderable one.
// Chart data saved alongside the text is folded back into a chart block so
// restored messages render exactly like live ones.
func hydrateMessage(pm PersistedMessage) (Message, bool) {
	if pm.Role != RoleUser && pm.Role != RoleAssistant {
		return Message{}, false
	}

	content := pm.Content
	if len(pm.ChartData) > 0 && !strings.Contains(content, "```chart") {
		content = strings.TrimRight(content, "\n")
		content += "\n\n```chart\n" + string(pm.ChartData) + "\n```"
	}

	msg := Message{
		ID:        pm.ID,
		Role:      pm.Role,
		Timestamp: pm.Timestamp,
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if content != "" {
		msg.Parts = append(msg.Parts, TextPart{Text: content})
	}
	return msg, true
}

// ClearChat aborts any in-flight stream, resets the local conversation and
// deletes the server-side session in the background. Deletion failures are
// logged and otherwise ignored; the local slate is already clean.
func (m *Model) ClearChat() tea.Cmd {
	sessionID := m.SessionID
	backend := m.Backend
	m.ResetConversation()

	if sessionID == "" {
		return nil
	}
	return func() tea.Msg {
		err := backend.DeleteSession(context.Background(), sessionID)
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[session] delete %s failed: %v", sessionID, err)
		}
		return SessionDeletedMsg{Err: err}
	}
}
