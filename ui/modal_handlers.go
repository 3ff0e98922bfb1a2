package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"pinkas/config"
)

func (a AppView) handleConfirmClearUpdate(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		a.confirmClear = ConfirmationState{}
		cmd := a.dataModel.ClearChat()
		a.cardFocus = ""
		a.textarea.Reset()
		a.textarea.Focus()
		a.updateViewportContent(true)
		return a, cmd

	case "n", "esc":
		a.confirmClear = ConfirmationState{}
		return a, nil
	}
	return a, nil
}

func (a AppView) handleVoicePickerUpdate(msg tea.KeyMsg) (AppView, tea.Cmd) {
	if a.voicePicker.Transcribing {
		// Esc hides the modal; the transcription keeps running and its
		// text still lands in the input box once done.
		if msg.String() == "esc" {
			a.voicePicker.Reset()
		}
		return a, nil
	}

	if msg.String() == "esc" {
		a.voicePicker.Reset()
		return a, nil
	}

	var cmd tea.Cmd
	a.voicePicker.Picker, cmd = a.voicePicker.Picker.Update(msg)

	// Only files pass the picker's own type filter; directories open
	// instead of selecting.
	if path := a.voicePicker.Picker.Path; path != "" {
		a.voicePicker.Transcribing = true
		return a, tea.Batch(
			a.dataModel.TranscribeFile(path),
			a.loadingSpinner.Tick,
		)
	}

	return a, cmd
}

func (a AppView) handleBusinessSelectorUpdate(msg tea.KeyMsg) (AppView, tea.Cmd) {
	// Handle business filter mode
	if a.businessFilterMode {
		switch msg.String() {
		case "esc":
			a.businessFilterMode = false
			a.businessFilterInput.Blur()
			a.businessFilterInput.SetValue("")
			a.filteredBusinessList = nil
			a.selectedBusinessIdx = 0
			return a, nil

		case "enter":
			return a.selectBusiness()

		case "alt+j", "alt+down", "down":
			list := a.businessList()
			if a.selectedBusinessIdx < len(list)-1 {
				a.selectedBusinessIdx++
			}
			return a, nil

		case "alt+k", "alt+up", "up":
			if a.selectedBusinessIdx > 0 {
				a.selectedBusinessIdx--
			}
			return a, nil
		}

		var cmd tea.Cmd
		a.businessFilterInput, cmd = a.businessFilterInput.Update(msg)

		filterValue := a.businessFilterInput.Value()
		all := a.dataModel.Config.Businesses
		if filterValue == "" {
			a.filteredBusinessList = all
		} else {
			targets := make([]string, len(all))
			for i, biz := range all {
				targets[i] = biz.Name
			}

			matches := fuzzy.Find(filterValue, targets)
			a.filteredBusinessList = make([]config.Business, len(matches))
			for i, match := range matches {
				a.filteredBusinessList[i] = all[match.Index]
			}
		}

		list := a.businessList()
		if a.selectedBusinessIdx >= len(list) && len(list) > 0 {
			a.selectedBusinessIdx = len(list) - 1
		}

		return a, cmd
	}

	// Normal business selector mode
	switch msg.String() {
	case "/":
		a.businessFilterMode = true
		a.businessFilterInput.Focus()
		a.businessFilterInput.SetValue("")
		a.filteredBusinessList = a.dataModel.Config.Businesses
		return a, textinput.Blink

	case "esc":
		a.showBusinessSelector = false
		return a, nil

	case "j", "down":
		list := a.businessList()
		if a.selectedBusinessIdx < len(list)-1 {
			a.selectedBusinessIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedBusinessIdx > 0 {
			a.selectedBusinessIdx--
		}
		return a, nil

	case "enter":
		return a.selectBusiness()
	}
	return a, nil
}

// selectBusiness commits the highlighted business and closes the selector.
// Picking the active business again changes nothing; a different one
// resets the conversation and restores that business's newest session.
func (a AppView) selectBusiness() (AppView, tea.Cmd) {
	list := a.businessList()
	if a.selectedBusinessIdx < 0 || a.selectedBusinessIdx >= len(list) {
		return a, nil
	}
	chosen := list[a.selectedBusinessIdx]

	a.showBusinessSelector = false
	a.businessFilterMode = false
	a.businessFilterInput.Blur()
	a.businessFilterInput.SetValue("")
	a.filteredBusinessList = nil

	if chosen.ID == a.dataModel.BusinessID {
		return a, nil
	}

	a.dataModel.SwitchBusiness(chosen.ID)
	a.cardFocus = ""
	a.textarea.Reset()
	a.textarea.Focus()
	a.updateViewportContent(true)
	return a, tea.Batch(a.dataModel.LoadHistory(), a.loadingSpinner.Tick)
}

func (a *AppView) businessList() []config.Business {
	if a.businessFilterMode && len(a.filteredBusinessList) > 0 {
		return a.filteredBusinessList
	}
	return a.dataModel.Config.Businesses
}

// resetBusinessSelector opens the selector positioned on the active
// business with any stale filter cleared.
func (a *AppView) resetBusinessSelector() {
	a.businessFilterMode = false
	a.businessFilterInput.SetValue("")
	a.filteredBusinessList = nil
	a.selectedBusinessIdx = 0
	for i, biz := range a.dataModel.Config.Businesses {
		if biz.ID == a.dataModel.BusinessID {
			a.selectedBusinessIdx = i
			break
		}
	}
}

func (a AppView) handleAuditUpdate(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.showAudit = false
		return a, nil

	case "r":
		a.auditLoading = true
		return a, tea.Batch(
			a.dataModel.LoadAuditEntries(auditViewLimit),
			a.loadingSpinner.Tick,
		)
	}
	return a, nil
}

func (a AppView) handleSearchUpdate(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.dataModel.CloseSearch()
		a.searchInput.Blur()
		a.searchInput.SetValue("")
		return a, nil

	case "alt+k", "up":
		if a.dataModel.Search.Selected > 0 {
			a.dataModel.Search.Selected--
		}
		return a, nil

	case "alt+j", "down":
		if a.dataModel.Search.Selected < len(a.dataModel.Search.Results)-1 {
			a.dataModel.Search.Selected++
		}
		return a, nil

	case "enter":
		results := a.dataModel.Search.Results
		sel := a.dataModel.Search.Selected
		if sel < 0 || sel >= len(results) {
			return a, nil
		}
		hit := results[sel]

		idx := a.messageIndexByID(hit.ID)
		if idx < 0 {
			// Hit from an older conversation; only its snippet is local.
			return a, a.flashNotice("התוצאה משיחה קודמת ואינה טעונה כאן")
		}

		a.dataModel.CloseSearch()
		a.searchInput.Blur()
		a.searchInput.SetValue("")

		a.highlightedMessageIdx = idx
		a.highlightFlashCount = 1
		a.updateViewportContent(false)
		a.scrollToMessage(idx)

		return a, tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
			return flashTickMsg{}
		})
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)

	// Cursor movement keys reach here too; only a changed query restarts
	// the debounce.
	if query := a.searchInput.Value(); query != a.dataModel.Search.Query {
		return a, tea.Batch(cmd, a.dataModel.SetSearchQuery(query))
	}
	return a, cmd
}
