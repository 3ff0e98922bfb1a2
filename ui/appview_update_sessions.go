package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pinkas/config"
	"pinkas/model"
)

func (a AppView) handleHistoryLoaded(msg historyLoadedMsg) (AppView, tea.Cmd) {
	a.dataModel.HandleHistoryLoaded(msg)
	a.updateViewportContent(true)

	if !a.ready {
		// No window size yet, so no wrap width. WindowSizeMsg picks the
		// render batch up.
		a.needsInitialRender = true
		return a, nil
	}
	return a, tea.Batch(a.historyRenderCmds()...)
}

// historyRenderCmds builds markdown render commands for restored
// assistant messages that have no cached rendering yet.
func (a *AppView) historyRenderCmds() []tea.Cmd {
	var cmds []tea.Cmd
	for i := range a.dataModel.Messages {
		msg := &a.dataModel.Messages[i]
		if msg.Role != model.RoleAssistant || msg.Rendered != "" {
			continue
		}
		if text := model.DisplayText(msg); text != "" {
			cmds = append(cmds, a.renderMarkdownAsync(i, text))
		}
	}
	return cmds
}

func (a AppView) handleSessionDeleted(msg sessionDeletedMsg) (AppView, tea.Cmd) {
	if msg.Err != nil {
		// The local slate is already clean; the server copy lingers.
		return a, a.flashNotice("מחיקת ההיסטוריה בשרת נכשלה")
	}
	return a, a.flashNotice("השיחה נוקתה")
}

func (a AppView) handleTranscriptionDone(msg transcriptionDoneMsg) (AppView, tea.Cmd) {
	a.voicePicker.Reset()

	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[ui] transcription failed: %v", msg.Err)
		}
		return a, a.flashNotice("התמלול נכשל")
	}

	// The transcript joins whatever is already typed; the user reviews
	// and sends it like any other text.
	if msg.Text != "" {
		if a.textarea.Value() != "" {
			a.textarea.InsertString(" " + msg.Text)
		} else {
			a.textarea.InsertString(msg.Text)
		}
	}
	a.textarea.Focus()
	return a, nil
}

func (a AppView) handleAuditEntries(msg auditEntriesMsg) (AppView, tea.Cmd) {
	a.auditLoading = false
	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[ui] audit load failed: %v", msg.Err)
		}
		a.auditEntries = nil
		return a, nil
	}
	a.auditEntries = msg.Entries
	return a, nil
}
