package model

import (
	"time"

	"github.com/google/uuid"
)

// Message roles. System messages are local UI notices and are never sent
// to the backend.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ToolState tracks a tool invocation's lifecycle.
type ToolState int

const (
	// ToolInputStreaming: the model is still generating the arguments.
	ToolInputStreaming ToolState = iota
	// ToolInputAvailable: arguments finalized, execution pending or running.
	ToolInputAvailable
	// ToolOutputAvailable: execution finished, result attached.
	ToolOutputAvailable
)

func (s ToolState) String() string {
	switch s {
	case ToolInputStreaming:
		return "input-streaming"
	case ToolInputAvailable:
		return "input-available"
	case ToolOutputAvailable:
		return "output-available"
	default:
		return "unknown"
	}
}

// Part is one fragment of a message: either plain text or a tool invocation.
type Part interface {
	isPart()
}

// TextPart holds a run of assistant or user text.
type TextPart struct {
	Text string
}

func (TextPart) isPart() {}

// ToolPart tracks one tool invocation through its lifecycle. Output is set
// only once State reaches ToolOutputAvailable; an "error" key in Output
// signals tool-level failure without aborting the conversation.
type ToolPart struct {
	ToolCallID string
	ToolName   string
	Input      map[string]any
	State      ToolState
	Output     map[string]any
}

func (ToolPart) isPart() {}

// Message represents a chat message in the conversation
type Message struct {
	ID        string
	Role      string
	Parts     []Part
	Rendered  string // Cached rendered markdown (optimize if storage becomes a concern)
	Timestamp time.Time
}

// NewUserMessage builds a complete single-text-part user message.
func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Parts:     []Part{TextPart{Text: text}},
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage builds an empty assistant message whose parts are
// populated incrementally as the stream progresses.
func NewAssistantMessage() Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}

// NewSystemMessage builds a local notice message (error banners etc).
func NewSystemMessage(text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleSystem,
		Parts:     []Part{TextPart{Text: text}},
		Timestamp: time.Now(),
	}
}

// TextContent returns the in-order concatenation of all text parts.
// Tool parts never contribute to display text.
func (m *Message) TextContent() string {
	var out string
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			out += tp.Text
		}
	}
	return out
}

// HasText reports whether any text part holds visible content.
func (m *Message) HasText() bool {
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok && tp.Text != "" {
			return true
		}
	}
	return false
}

// ToolParts returns the message's tool parts in order.
func (m *Message) ToolParts() []ToolPart {
	var parts []ToolPart
	for _, p := range m.Parts {
		if tp, ok := p.(ToolPart); ok {
			parts = append(parts, tp)
		}
	}
	return parts
}

// AppendText appends a streamed delta to the trailing text part, starting a
// new one when the message is empty or ends in a tool part.
func (m *Message) AppendText(delta string) {
	if delta == "" {
		return
	}
	if n := len(m.Parts); n > 0 {
		if tp, ok := m.Parts[n-1].(TextPart); ok {
			tp.Text += delta
			m.Parts[n-1] = tp
			return
		}
	}
	m.Parts = append(m.Parts, TextPart{Text: delta})
}

// UpsertToolPart inserts the tool part, or updates the existing part with
// the same ToolCallID. Lifecycle state never moves backwards; a stale event
// updates payloads but keeps the later state.
func (m *Message) UpsertToolPart(p ToolPart) {
	for i, existing := range m.Parts {
		tp, ok := existing.(ToolPart)
		if !ok || tp.ToolCallID != p.ToolCallID {
			continue
		}
		if p.State < tp.State {
			p.State = tp.State
		}
		if p.ToolName == "" {
			p.ToolName = tp.ToolName
		}
		if p.Input == nil {
			p.Input = tp.Input
		}
		if p.Output == nil {
			p.Output = tp.Output
		}
		m.Parts[i] = p
		return
	}
	m.Parts = append(m.Parts, p)
}
