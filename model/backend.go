package model

import (
	"context"
	"encoding/json"
	"time"
)

// Backend abstracts the dashboard API the chat client talks to: the chat
// streaming endpoint, session persistence, action execution, and audio
// transcription.
//
// This interface is defined in the model package (not the api package) to
// avoid import cycles: the api client can import model, and model commands
// can use the Backend interface without importing api.
type Backend interface {
	// ChatStream opens the streaming chat request and invokes callback for
	// every part event until the stream finishes or ctx is cancelled.
	ChatStream(ctx context.Context, req ChatRequest, callback StreamCallback) error

	// LatestSession returns the most recent session and its persisted
	// messages, or nil when the account has no sessions yet.
	LatestSession(ctx context.Context, businessID string) (*SessionHistory, error)

	// CreateSession creates a session for the business and returns its id.
	CreateSession(ctx context.Context, businessID string) (string, error)

	// DeleteSession removes a session server-side.
	DeleteSession(ctx context.Context, sessionID string) error

	// SearchHistory searches the full persisted history for the account.
	SearchHistory(ctx context.Context, query string) ([]SearchHit, error)

	// ExecuteAction submits a confirmed action payload for execution.
	ExecuteAction(ctx context.Context, payload map[string]any) (*ActionResult, error)

	// Transcribe converts recorded audio into text.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Transcriber converts recorded audio into text. The backend endpoint
// satisfies it directly; the transcribe package offers alternatives.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// StreamCallback is called for each part event of a chat stream. Returning
// an error aborts the stream.
type StreamCallback func(event StreamEvent) error

// Stream event types carried in StreamEvent.Type.
const (
	EventTextDelta          = "text-delta"
	EventToolInputStart     = "tool-input-start"
	EventToolInputAvailable = "tool-input-available"
	EventToolOutput         = "tool-output-available"
	EventFinish             = "finish"
	EventError              = "error"
)

// StreamEvent is one incremental part event from the chat stream: a text
// delta, a tool lifecycle transition, the completion signal, or a
// server-reported error.
type StreamEvent struct {
	Type       string         `json:"type"`
	Delta      string         `json:"delta,omitempty"`
	ToolCallID string         `json:"toolCallId,omitempty"`
	ToolName   string         `json:"toolName,omitempty"`
	Input      map[string]any `json:"input,omitempty"`
	Output     map[string]any `json:"output,omitempty"`
	Message    string         `json:"message,omitempty"`
}

// ChatRequest is the streaming endpoint's request body.
type ChatRequest struct {
	BusinessID  string     `json:"businessId"`
	SessionID   string     `json:"sessionId,omitempty"`
	PageContext string     `json:"pageContext,omitempty"`
	Messages    []ChatTurn `json:"messages"`
}

// ChatTurn is one role/content pair of conversation context.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionHistory is the latest session plus its persisted messages.
type SessionHistory struct {
	SessionID string
	Title     string
	Messages  []PersistedMessage
}

// PersistedMessage is one server-persisted message record.
type PersistedMessage struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	ChartData json.RawMessage `json:"chartData,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// SearchHit is one full-history search result.
type SearchHit struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	SessionTitle string    `json:"sessionTitle"`
	SessionDate  string    `json:"sessionDate"`
	Role         string    `json:"role"`
	Snippet      string    `json:"snippet"`
	Timestamp    time.Time `json:"timestamp"`
}

// ActionResult is the action execution endpoint's response body.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
