package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pinkas/model"
)

// Stream messages arrive one at a time through a single pump command.
// Each handler re-arms the pump only when the message belonged to the
// current stream; done and error never re-arm. That keeps exactly one
// read outstanding per open stream, and leftover messages from an
// aborted stream fall on the floor.

func (a AppView) handleStreamPart(msg streamPartMsg) (AppView, tea.Cmd) {
	if !a.dataModel.ApplyStreamEvent(msg.Gen, msg.Event) {
		return a, nil
	}

	a.updateViewportContent(true)

	if a.dataModel.Status == model.StatusError {
		// A fatal event inside the stream already tore the plumbing down.
		return a, nil
	}
	return a, a.dataModel.WaitForStream()
}

func (a AppView) handleSessionCreated(msg sessionCreatedMsg) (AppView, tea.Cmd) {
	if !a.dataModel.HandleSessionCreated(msg) {
		return a, nil
	}
	return a, a.dataModel.WaitForStream()
}

func (a AppView) handleStreamDone(msg streamDoneMsg) (AppView, tea.Cmd) {
	if !a.dataModel.HandleStreamDone(msg.Gen) {
		return a, nil
	}

	a.updateViewportContent(true)

	// The answer is final now; swap the plain streamed text for rendered
	// markdown off the update loop.
	if last := len(a.dataModel.Messages) - 1; last >= 0 {
		msg := &a.dataModel.Messages[last]
		if msg.Role == model.RoleAssistant {
			if text := model.DisplayText(msg); text != "" {
				return a, a.renderMarkdownAsync(last, text)
			}
		}
	}
	return a, nil
}

func (a AppView) handleStreamError(msg streamErrorMsg) (AppView, tea.Cmd) {
	if !a.dataModel.HandleStreamError(msg.Gen, msg.Err) {
		return a, nil
	}
	a.updateViewportContent(true)
	return a, nil
}
