package model

// StreamPartMsg carries one part event from the open chat stream. Gen
// identifies the stream it belongs to; stale generations are dropped.
type StreamPartMsg struct {
	Gen   int
	Event StreamEvent
}

// StreamDoneMsg signals normal stream completion.
type StreamDoneMsg struct {
	Gen int
}

// StreamErrorMsg signals that the stream failed or was refused.
type StreamErrorMsg struct {
	Gen int
	Err error
}

// SessionCreatedMsg reports the lazy session create that precedes the
// first send. Err is informational: the send proceeds without an id.
type SessionCreatedMsg struct {
	Gen       int
	SessionID string
	Err       error
}

// HistoryLoadedMsg delivers the startup history restore. A nil History
// with nil Err means the account has no sessions yet.
type HistoryLoadedMsg struct {
	History *SessionHistory
	Err     error
}

// SessionDeletedMsg reports the best-effort server-side delete after a
// local clear.
type SessionDeletedMsg struct {
	Err error
}

// SearchDebounceMsg fires when a search query survived the debounce delay.
type SearchDebounceMsg struct {
	Gen   int
	Query string
}

// SearchResultsMsg delivers server search results for one generation.
type SearchResultsMsg struct {
	Gen     int
	Results []SearchHit
	Err     error
}

// ActionResultMsg reports one action confirmation submission.
type ActionResultMsg struct {
	MessageID  string
	ToolCallID string
	Result     *ActionResult
	Err        error
}

// TranscriptionDoneMsg delivers transcribed text for the input field.
type TranscriptionDoneMsg struct {
	Text string
	Err  error
}

// AuditEntriesMsg delivers the audit-log view.
type AuditEntriesMsg struct {
	Entries []AuditEntryView
	Err     error
}

// AuditEntryView is one audit row prepared for display.
type AuditEntryView struct {
	Timestamp  string
	Business   string
	ActionType string
	Decision   string
	Outcome    string
}
