package testutil

import (
	"context"

	"pinkas/model"
)

// MockBackend implements model.Backend for testing
type MockBackend struct {
	// Configurable responses
	ChatStreamFunc    func(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error
	LatestSessionFunc func(ctx context.Context, businessID string) (*model.SessionHistory, error)
	CreateSessionFunc func(ctx context.Context, businessID string) (string, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error
	SearchHistoryFunc func(ctx context.Context, query string) ([]model.SearchHit, error)
	ExecuteActionFunc func(ctx context.Context, payload map[string]any) (*model.ActionResult, error)
	TranscribeFunc    func(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// NewMockBackend creates a mock backend with default implementations
func NewMockBackend() *MockBackend {
	mock := &MockBackend{}
	mock.ChatStreamFunc = mock.defaultChatStream
	mock.LatestSessionFunc = mock.defaultLatestSession
	mock.CreateSessionFunc = mock.defaultCreateSession
	mock.DeleteSessionFunc = mock.defaultDeleteSession
	mock.SearchHistoryFunc = mock.defaultSearchHistory
	mock.ExecuteActionFunc = mock.defaultExecuteAction
	mock.TranscribeFunc = mock.defaultTranscribe
	return mock
}

func (m *MockBackend) defaultChatStream(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error {
	if err := callback(model.StreamEvent{Type: model.EventTextDelta, Delta: "Mock response"}); err != nil {
		return err
	}
	return callback(model.StreamEvent{Type: model.EventFinish})
}

func (m *MockBackend) defaultLatestSession(ctx context.Context, businessID string) (*model.SessionHistory, error) {
	return nil, nil
}

func (m *MockBackend) defaultCreateSession(ctx context.Context, businessID string) (string, error) {
	return "mock-session-1", nil
}

func (m *MockBackend) defaultDeleteSession(ctx context.Context, sessionID string) error {
	return nil
}

func (m *MockBackend) defaultSearchHistory(ctx context.Context, query string) ([]model.SearchHit, error) {
	return nil, nil
}

func (m *MockBackend) defaultExecuteAction(ctx context.Context, payload map[string]any) (*model.ActionResult, error) {
	return &model.ActionResult{Success: true, Message: "mock executed"}, nil
}

func (m *MockBackend) defaultTranscribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return "mock transcription", nil
}

func (m *MockBackend) ChatStream(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error {
	return m.ChatStreamFunc(ctx, req, callback)
}

func (m *MockBackend) LatestSession(ctx context.Context, businessID string) (*model.SessionHistory, error) {
	return m.LatestSessionFunc(ctx, businessID)
}

func (m *MockBackend) CreateSession(ctx context.Context, businessID string) (string, error) {
	return m.CreateSessionFunc(ctx, businessID)
}

func (m *MockBackend) DeleteSession(ctx context.Context, sessionID string) error {
	return m.DeleteSessionFunc(ctx, sessionID)
}

func (m *MockBackend) SearchHistory(ctx context.Context, query string) ([]model.SearchHit, error) {
	return m.SearchHistoryFunc(ctx, query)
}

func (m *MockBackend) ExecuteAction(ctx context.Context, payload map[string]any) (*model.ActionResult, error) {
	return m.ExecuteActionFunc(ctx, payload)
}

func (m *MockBackend) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return m.TranscribeFunc(ctx, audio, mimeType)
}

// ScriptedStream returns a ChatStreamFunc that replays the given events in
// order, so tests can drive exact part sequences through the model.
func ScriptedStream(events ...model.StreamEvent) func(context.Context, model.ChatRequest, model.StreamCallback) error {
	return func(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error {
		for _, event := range events {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := callback(event); err != nil {
				return err
			}
		}
		return nil
	}
}
