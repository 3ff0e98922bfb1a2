package ui

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"pinkas/config"
	"pinkas/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Update spinner FIRST to handle TickMsg before anything else
	if a.spinnerActive() {
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		cmds = append(cmds, cmd)
		// The thinking line and confirming cards animate inside the
		// viewport; modal spinners repaint through View on their own.
		if a.dataModel.Status.InFlight() || a.hasConfirmingCard() {
			a.updateViewportContent(a.dataModel.Status.InFlight())
		}
	}

	// The file picker needs every message type except KeyMsg, which the
	// modal handler routes so file selection can be intercepted. Directory
	// listings arrive as the picker's own internal messages.
	if a.voicePicker.Active && !a.voicePicker.Transcribing {
		switch msg.(type) {
		case tea.KeyMsg:
		default:
			a.voicePicker.Picker, cmd = a.voicePicker.Picker.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Reserve space for title (1 line), separator (1 line), textarea
		// (3 lines), and status bar (1 line)
		viewportHeight := a.height - 6
		a.viewport.Width = a.width
		a.viewport.Height = viewportHeight
		a.textarea.SetWidth(a.width)

		a.ready = true
		a.updateViewportContent(true)

		// History restored before the first size arrives waits here for a
		// usable wrap width.
		if a.needsInitialRender {
			a.needsInitialRender = false
			return a, tea.Batch(a.historyRenderCmds()...)
		}

		return a, nil

	case tea.KeyMsg:
		// PRIORITY 0: quit from anywhere
		switch msg.String() {
		case "alt+q", "ctrl+c":
			if config.DebugLog != nil {
				config.DebugLog.Printf("[ui] quit requested")
			}
			a.dataModel.Quitting = true
			a.dataModel.AbortStream()
			return a, tea.Quit
		}

		// PRIORITY 1: Modal toggle shortcuts (close current modal, open new one)
		switch msg.String() {
		case "alt+h":
			wasOpen := a.showHelp
			a.closeAllModals()
			a.showHelp = !wasOpen
			return a, nil

		case "alt+b":
			wasOpen := a.showBusinessSelector
			a.closeAllModals()
			a.showBusinessSelector = !wasOpen
			if a.showBusinessSelector {
				a.resetBusinessSelector()
			}
			return a, nil

		case "alt+f":
			wasOpen := a.dataModel.Search.Active
			a.closeAllModals()
			if !wasOpen {
				a.dataModel.OpenSearch()
				a.searchInput.Reset()
				a.searchInput.Focus()
			}
			return a, nil

		case "alt+l":
			wasOpen := a.showAudit
			a.closeAllModals()
			a.showAudit = !wasOpen
			if a.showAudit {
				a.auditLoading = true
				return a, tea.Batch(
					a.dataModel.LoadAuditEntries(auditViewLimit),
					a.loadingSpinner.Tick,
				)
			}
			return a, nil

		case "alt+t":
			wasOpen := a.voicePicker.Active
			a.closeAllModals()
			if !wasOpen {
				a.voicePicker.Activate()
				// Init reads the starting directory.
				return a, a.voicePicker.Picker.Init()
			}
			return a, nil

		case "alt+n":
			a.closeAllModals()
			if len(a.dataModel.Messages) == 0 && a.dataModel.SessionID == "" {
				return a, nil
			}
			a.confirmClear = ConfirmationState{
				Active:  true,
				Title:   "ניקוי השיחה",
				Message: "למחוק את השיחה הנוכחית?\nההיסטוריה בשרת תימחק גם היא.",
			}
			return a, nil
		}

		// PRIORITY 2: route keys to the open modal
		if a.showHelp {
			if msg.String() == "esc" {
				a.showHelp = false
			}
			return a, nil
		}

		if a.confirmClear.Active {
			return a.handleConfirmClearUpdate(msg)
		}

		if a.voicePicker.Active {
			return a.handleVoicePickerUpdate(msg)
		}

		if a.showBusinessSelector {
			return a.handleBusinessSelectorUpdate(msg)
		}

		if a.showAudit {
			return a.handleAuditUpdate(msg)
		}

		if a.dataModel.Search.Active {
			return a.handleSearchUpdate(msg)
		}

		// PRIORITY 3: action card focus (Tab enters, y/n decide)
		if a.cardFocus != "" {
			return a.handleCardFocusUpdate(msg)
		}

		if msg.String() == "tab" {
			if a.cycleCardFocus() {
				a.textarea.Blur()
				a.updateViewportContent(false)
			}
			return a, nil
		}

		// PRIORITY 4: streaming cancellation (only if no modal open)
		if msg.String() == "esc" && a.dataModel.Status.InFlight() {
			a.dataModel.CancelStream()
			a.dataModel.Messages = append(a.dataModel.Messages, model.NewSystemMessage("⚠ התשובה בוטלה"))
			a.updateViewportContent(true)
			return a, nil
		}

		// Handle Enter for sending messages - DON'T let textarea process it
		// But allow Alt+Enter to pass through for newlines
		if msg.Type == tea.KeyEnter && !msg.Alt {
			if a.dataModel.LoadingHistory {
				return a, nil
			}
			sendCmd := a.dataModel.SendMessage(a.textarea.Value())
			if sendCmd == nil {
				// Refused: blank input or a request already in flight.
				return a, nil
			}

			if config.DebugLog != nil {
				config.DebugLog.Printf("[ui] message sent, stream opened")
			}

			a.textarea.Reset()
			a.updateViewportContent(true)

			return a, tea.Batch(sendCmd, a.loadingSpinner.Tick)
		}

		switch msg.String() {
		case "alt+y":
			// Copy last assistant answer
			if text := a.lastAnswerText(); text != "" {
				clipboard.WriteAll(text)
				return a, a.flashNotice("התשובה הועתקה")
			}
			return a, nil

		case "alt+c":
			// Copy the whole conversation
			if transcript := a.conversationTranscript(); transcript != "" {
				clipboard.WriteAll(transcript)
				return a, a.flashNotice("השיחה הועתקה")
			}
			return a, nil

		case "alt+j", "alt+down":
			a.viewport.HalfPageDown()
			return a, nil

		case "alt+k", "alt+up":
			a.viewport.HalfPageUp()
			return a, nil

		case "alt+J", "pgdown":
			a.viewport.PageDown()
			return a, nil

		case "alt+K", "pgup":
			a.viewport.PageUp()
			return a, nil

		case "alt+g":
			a.viewport.GotoTop()
			return a, nil

		case "alt+G":
			a.viewport.GotoBottom()
			return a, nil
		}

	case streamPartMsg:
		return a.handleStreamPart(msg)

	case sessionCreatedMsg:
		return a.handleSessionCreated(msg)

	case streamDoneMsg:
		return a.handleStreamDone(msg)

	case streamErrorMsg:
		return a.handleStreamError(msg)

	case historyLoadedMsg:
		return a.handleHistoryLoaded(msg)

	case sessionDeletedMsg:
		return a.handleSessionDeleted(msg)

	case searchDebounceMsg:
		return a, a.dataModel.HandleSearchDebounce(msg)

	case searchResultsMsg:
		a.dataModel.HandleSearchResults(msg)
		return a, nil

	case actionResultMsg:
		return a.handleActionResult(msg)

	case transcriptionDoneMsg:
		return a.handleTranscriptionDone(msg)

	case auditEntriesMsg:
		return a.handleAuditEntries(msg)

	case markdownRenderedMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[render] markdown ready for message %d", msg.MessageIndex)
		}
		if msg.MessageIndex >= 0 && msg.MessageIndex < len(a.dataModel.Messages) {
			a.dataModel.Messages[msg.MessageIndex].Rendered = msg.Rendered

			// Keep the scroll position while a search jump highlight is up.
			gotoBottom := a.highlightedMessageIdx < 0
			a.updateViewportContent(gotoBottom)
		}
		return a, nil

	case flashTickMsg:
		if a.highlightFlashCount > 0 && a.highlightFlashCount < 6 {
			a.highlightFlashCount++
			a.updateViewportContent(false)
			return a, tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
				return flashTickMsg{}
			})
		}
		a.highlightedMessageIdx = -1
		a.highlightFlashCount = 0
		a.updateViewportContent(false)
		return a, nil

	case noticeExpiredMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil
	}

	// Update textarea only if typing belongs to it
	if !a.dataModel.Status.InFlight() && a.cardFocus == "" {
		a.textarea, cmd = a.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// flashNotice shows a transient message in the status bar.
func (a *AppView) flashNotice(text string) tea.Cmd {
	a.notice = text
	a.noticeSeq++
	seq := a.noticeSeq
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
