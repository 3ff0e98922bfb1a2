package ui

import (
	"pinkas/model"
)

// Message type alias for backward compatibility
type Message = model.Message

// Message type aliases - these are now defined in model package
type streamPartMsg = model.StreamPartMsg
type streamDoneMsg = model.StreamDoneMsg
type streamErrorMsg = model.StreamErrorMsg
type sessionCreatedMsg = model.SessionCreatedMsg
type sessionDeletedMsg = model.SessionDeletedMsg
type historyLoadedMsg = model.HistoryLoadedMsg
type searchDebounceMsg = model.SearchDebounceMsg
type searchResultsMsg = model.SearchResultsMsg
type actionResultMsg = model.ActionResultMsg
type transcriptionDoneMsg = model.TranscriptionDoneMsg
type auditEntriesMsg = model.AuditEntriesMsg

// markdownRenderedMsg delivers an async markdown render back to the
// message it was rendered for.
type markdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}

// flashTickMsg drives the highlight blink after a search jump.
type flashTickMsg struct{}

// noticeExpiredMsg clears the transient status-bar notice. The sequence
// number keeps an old expiry from wiping a newer notice.
type noticeExpiredMsg struct {
	seq int
}
