package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"pinkas/config"
	"pinkas/storage"
)

// Status is the conversation's request lifecycle.
type Status int

const (
	StatusIdle      Status = iota
	StatusSubmitted        // request sent, no part received yet
	StatusStreaming        // parts arriving
	StatusReady            // last request completed
	StatusError            // last request failed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitted:
		return "submitted"
	case StatusStreaming:
		return "streaming"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// InFlight reports whether a chat request is currently open.
func (s Status) InFlight() bool {
	return s == StatusSubmitted || s == StatusStreaming
}

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config      *config.Config
	Backend     Backend
	Transcriber Transcriber
	AuditLog    *storage.AuditLog

	// Application data
	Messages     []Message
	SessionID    string
	BusinessID   string
	BusinessName string
	AdminMode    bool
	PageContext  string

	// Runtime state (not UI)
	Status         Status
	LoadingHistory bool
	LastError      string
	Quitting       bool

	// Search state
	Search SearchState

	// Per-card confirmation state machines, keyed by message id + tool
	// call id. Every proposed action across the conversation keeps its own
	// card, terminal states included.
	cards map[string]*ActionCard

	// Streaming plumbing. streamGen stamps every stream message so events
	// from an aborted stream can never touch cleared state.
	streamCh     chan tea.Msg
	streamCancel context.CancelFunc
	streamGen    int

	// Application metadata
	Version string
}

// NewModel creates a new Model with the given configuration
func NewModel(cfg *config.Config, backend Backend, auditLog *storage.AuditLog, version string) *Model {
	return &Model{
		Config:       cfg,
		Backend:      backend,
		AuditLog:     auditLog,
		BusinessID:   cfg.DefaultBusiness,
		BusinessName: cfg.BusinessName(cfg.DefaultBusiness),
		AdminMode:    cfg.AdminMode,
		PageContext:  cfg.PageContext,
		Status:       StatusIdle,
		cards:        make(map[string]*ActionCard),
		Version:      version,
	}
}

// CanSend reports whether a new message may go out right now: not blank,
// authorized (business selected or admin), and no request in flight.
func (m *Model) CanSend(text string) bool {
	if text == "" {
		return false
	}
	if m.BusinessID == "" && !m.AdminMode {
		return false
	}
	return !m.Status.InFlight()
}

// LastMessage returns the newest message, or nil for an empty conversation.
func (m *Model) LastMessage() *Message {
	if len(m.Messages) == 0 {
		return nil
	}
	return &m.Messages[len(m.Messages)-1]
}

// lastAssistantMessage returns the trailing assistant message if the
// conversation ends with one.
func (m *Model) lastAssistantMessage() *Message {
	last := m.LastMessage()
	if last == nil || last.Role != RoleAssistant {
		return nil
	}
	return last
}

// ThinkingStatus derives the label shown while the assistant has not yet
// produced visible text for the current turn. Never stored: recomputed
// from request state and the last message.
func (m *Model) ThinkingStatus() string {
	if !m.Status.InFlight() {
		return ""
	}
	last := m.lastAssistantMessage()
	if last == nil {
		return "חושב..."
	}
	if last.HasText() {
		return ""
	}
	for i := len(last.Parts) - 1; i >= 0; i-- {
		tp, ok := last.Parts[i].(ToolPart)
		if !ok {
			continue
		}
		if tp.State == ToolInputStreaming || tp.State == ToolInputAvailable {
			return ToolStatusLabel(tp.ToolName)
		}
	}
	return "חושב..."
}

// CardFor returns the confirmation card for a proposed action, creating it
// on first sight. Keying by message id plus tool call id keeps cards
// independent across the conversation's history.
func (m *Model) CardFor(msgID string, action *ProposedAction) *ActionCard {
	key := msgID + ":" + action.ToolCallID
	if card, ok := m.cards[key]; ok {
		return card
	}
	card := NewActionCard(action)
	m.cards[key] = card
	return card
}

// AbortStream cancels the open chat stream, if any, and invalidates its
// pending events.
func (m *Model) AbortStream() {
	m.streamGen++
	m.closeStream()
}

// CancelStream aborts the in-flight request at the user's request. The
// partial answer stays; an assistant container the stream never touched is
// dropped.
func (m *Model) CancelStream() {
	if !m.Status.InFlight() {
		return
	}
	m.AbortStream()
	m.Status = StatusReady
	if n := len(m.Messages); n > 0 {
		last := m.Messages[n-1]
		if last.Role == RoleAssistant && len(last.Parts) == 0 {
			m.Messages = m.Messages[:n-1]
		}
	}
}

// ResetConversation clears all local conversation state: messages, cards,
// session identity, and any open stream. Server-side deletion is a
// separate best-effort command.
func (m *Model) ResetConversation() {
	m.AbortStream()
	m.Messages = nil
	m.cards = make(map[string]*ActionCard)
	m.SessionID = ""
	m.Status = StatusIdle
	m.LastError = ""
}

// SwitchBusiness changes the active tenant. A different business means a
// different session scope, so the conversation resets.
func (m *Model) SwitchBusiness(id string) {
	if id == m.BusinessID {
		return
	}
	m.ResetConversation()
	m.BusinessID = id
	m.BusinessName = m.Config.BusinessName(id)
}
