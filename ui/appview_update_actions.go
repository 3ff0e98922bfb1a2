package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleCardFocusUpdate routes keys while an action card holds focus.
// y confirms (or retries a failed card), n rejects, Tab moves to the
// next card, Esc snaps focus back to the input.
func (a AppView) handleCardFocusUpdate(msg tea.KeyMsg) (AppView, tea.Cmd) {
	ref := a.focusedCardRef()
	if ref == nil {
		// The focused card settled or vanished under us.
		a.cardFocus = ""
		a.textarea.Focus()
		a.updateViewportContent(false)
		return a, nil
	}

	switch msg.String() {
	case "tab":
		if !a.cycleCardFocus() {
			a.textarea.Focus()
		}
		a.updateViewportContent(false)
		return a, nil

	case "y":
		cmd := a.dataModel.ConfirmAction(ref.MessageID, ref.Action)
		if cmd == nil {
			// Unresolved supplier; the card stays put until rejected.
			return a, nil
		}
		a.cardFocus = ""
		a.textarea.Focus()
		a.updateViewportContent(false)
		return a, tea.Batch(cmd, a.loadingSpinner.Tick)

	case "n":
		cmd := a.dataModel.RejectAction(ref.MessageID, ref.Action)
		a.cardFocus = ""
		a.textarea.Focus()
		a.updateViewportContent(false)
		return a, cmd

	case "esc":
		a.cardFocus = ""
		a.textarea.Focus()
		a.updateViewportContent(false)
		return a, nil
	}

	return a, nil
}

func (a AppView) handleActionResult(msg actionResultMsg) (AppView, tea.Cmd) {
	a.dataModel.HandleActionResult(msg)
	a.updateViewportContent(false)
	return a, nil
}
