package model

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pinkas/config"
)

// SendMessage validates and sends a user message: appends it locally,
// appends the assistant container the stream will fill, and opens the
// streaming request. Returns nil when sending is refused (blank text, no
// business context for a non-admin, or a request already in flight).
func (m *Model) SendMessage(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if !m.CanSend(text) {
		return nil
	}

	m.Messages = append(m.Messages, NewUserMessage(text))
	m.Messages = append(m.Messages, NewAssistantMessage())
	m.Status = StatusSubmitted
	m.LastError = ""

	return m.startStream()
}

// startStream spawns the streaming goroutine and returns the first pump
// command. The goroutine creates the session lazily when none exists; a
// failed create is reported but never blocks the message.
func (m *Model) startStream() tea.Cmd {
	backend := m.Backend
	businessID := m.BusinessID
	sessionID := m.SessionID
	pageContext := m.PageContext
	turns := m.chatTurns()

	ctx, cancel := context.WithCancel(context.Background())
	m.streamCancel = cancel
	gen := m.streamGen

	ch := make(chan tea.Msg, 64)
	m.streamCh = ch

	go func() {
		defer close(ch)

		// Deliver without leaking: once the stream is aborted nobody may
		// be pumping anymore, so every send also watches ctx.
		send := func(msg tea.Msg) bool {
			select {
			case ch <- msg:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if sessionID == "" {
			id, err := backend.CreateSession(ctx, businessID)
			if err != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[chat] session create failed, sending without session: %v", err)
				}
				send(SessionCreatedMsg{Gen: gen, Err: err})
			} else {
				sessionID = id
				send(SessionCreatedMsg{Gen: gen, SessionID: id})
			}
		}

		req := ChatRequest{
			BusinessID:  businessID,
			SessionID:   sessionID,
			PageContext: pageContext,
			Messages:    turns,
		}

		err := backend.ChatStream(ctx, req, func(event StreamEvent) error {
			if !send(StreamPartMsg{Gen: gen, Event: event}) {
				return ctx.Err()
			}
			return nil
		})
		if err != nil {
			send(StreamErrorMsg{Gen: gen, Err: err})
			return
		}
		send(StreamDoneMsg{Gen: gen})
	}()

	return m.WaitForStream()
}

// WaitForStream returns a command that delivers the next stream message.
// The update loop re-issues it after each delivery until done or error.
func (m *Model) WaitForStream() tea.Cmd {
	ch := m.streamCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// chatTurns projects the conversation into role/content pairs for the
// streaming request. System notices stay local.
func (m *Model) chatTurns() []ChatTurn {
	var turns []ChatTurn
	for i := range m.Messages {
		msg := &m.Messages[i]
		if msg.Role != RoleUser && msg.Role != RoleAssistant {
			continue
		}
		content := strings.TrimSpace(msg.TextContent())
		if content == "" {
			continue
		}
		turns = append(turns, ChatTurn{Role: msg.Role, Content: content})
	}
	return turns
}

// ApplyStreamEvent folds one part event into the trailing assistant
// message. Returns false for events from a stale stream, which the caller
// must ignore entirely.
func (m *Model) ApplyStreamEvent(gen int, event StreamEvent) bool {
	if gen != m.streamGen {
		return false
	}

	if m.Status == StatusSubmitted {
		m.Status = StatusStreaming
	}

	msg := m.lastAssistantMessage()
	if msg == nil {
		// The stream outlived its conversation turn; nothing to update.
		return false
	}

	switch event.Type {
	case EventTextDelta:
		msg.AppendText(event.Delta)
	case EventToolInputStart:
		msg.UpsertToolPart(ToolPart{
			ToolCallID: event.ToolCallID,
			ToolName:   event.ToolName,
			State:      ToolInputStreaming,
		})
	case EventToolInputAvailable:
		msg.UpsertToolPart(ToolPart{
			ToolCallID: event.ToolCallID,
			ToolName:   event.ToolName,
			Input:      event.Input,
			State:      ToolInputAvailable,
		})
	case EventToolOutput:
		msg.UpsertToolPart(ToolPart{
			ToolCallID: event.ToolCallID,
			ToolName:   event.ToolName,
			Output:     event.Output,
			State:      ToolOutputAvailable,
		})
	case EventError:
		m.failStream(event.Message)
	case EventFinish:
		// Completion is handled by StreamDoneMsg once the stream closes.
	}
	return true
}

// HandleStreamDone finalizes a completed stream.
func (m *Model) HandleStreamDone(gen int) bool {
	if gen != m.streamGen {
		return false
	}
	m.Status = StatusReady
	m.closeStream()
	return true
}

// HandleSessionCreated adopts the lazily created session id. A failed
// create already logged inside the stream goroutine; the conversation
// simply continues session-less and retries on the next message. Returns
// false for a stale stream's create, which the caller must ignore.
func (m *Model) HandleSessionCreated(msg SessionCreatedMsg) bool {
	if msg.Gen != m.streamGen {
		return false
	}
	if msg.Err == nil && msg.SessionID != "" {
		m.SessionID = msg.SessionID
	}
	return true
}

// HandleStreamError moves the conversation into the error state. The
// session survives: the user can retry by sending another message.
func (m *Model) HandleStreamError(gen int, err error) bool {
	if gen != m.streamGen {
		return false
	}
	message := "אירעה שגיאה, נסו שוב"
	if err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[chat] stream error: %v", err)
	}
	m.failStream(message)
	return true
}

func (m *Model) failStream(message string) {
	m.Status = StatusError
	m.LastError = message
	m.closeStream()

	// Drop the assistant container if the stream died before filling it;
	// the error banner takes its place.
	if n := len(m.Messages); n > 0 {
		last := m.Messages[n-1]
		if last.Role == RoleAssistant && len(last.Parts) == 0 {
			m.Messages = m.Messages[:n-1]
		}
	}
}

// closeStream releases the stream plumbing. Cancelling the context lets
// the goroutine unwind even if nobody pumps the channel anymore.
func (m *Model) closeStream() {
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
	m.streamCh = nil
}
