package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/lipgloss"

	"pinkas/config"
)

// VoicePickerState drives the voice note modal: browse for an audio file,
// then show progress while it is transcribed. The resulting text lands in
// the input box for review, never sent on its own.
type VoicePickerState struct {
	Active       bool
	Transcribing bool
	Picker       filepicker.Model
}

func NewVoicePicker() VoicePickerState {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".wav", ".mp3", ".m4a", ".ogg", ".webm", ".flac"}
	fp.Height = 10
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.CurrentDirectory = config.GetHomeDir()

	fp.Styles.Directory = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)
	fp.Styles.File = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15"))
	fp.Styles.Selected = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)
	fp.Styles.Cursor = lipgloss.NewStyle().
		Foreground(successColor)

	return VoicePickerState{Picker: fp}
}

func (s *VoicePickerState) Activate() {
	s.Active = true
	s.Transcribing = false
	// A path left over from the previous pick would fire immediately.
	s.Picker.Path = ""
}

func (s *VoicePickerState) Reset() {
	s.Active = false
	s.Transcribing = false
}

// RenderVoicePicker renders the voice note modal. spinnerView animates the
// transcription phase and comes from the shared loading spinner.
func RenderVoicePicker(state VoicePickerState, spinnerView string, width, height int) string {
	if width < 20 || height < 10 {
		return "המסך קטן מדי"
	}

	modalWidth := width - 10
	if modalWidth < 10 {
		modalWidth = 10
	}
	if modalWidth > 80 {
		modalWidth = 80
	}

	if state.Transcribing {
		return renderVoiceTranscribing(spinnerView, modalWidth, width, height)
	}

	var messageLines []string

	contentStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)

	for _, line := range strings.Split(state.Picker.View(), "\n") {
		messageLines = append(messageLines, contentStyle.Render("  "+strings.TrimRight(line, " ")))
	}

	messageLines = append(messageLines, strings.Repeat(" ", modalWidth))
	messageLines = append(messageLines, contentStyle.Render("  "+DimStyle.Render("קבצי שמע: wav / mp3 / m4a / ogg / webm / flac")))

	footer := FormatFooter("j/k", "ניווט", "h/l", "תיקייה", "Enter", "בחירה", "Esc", "ביטול")

	return RenderThreeSectionModal(
		"🎤 תמלול קובץ שמע",
		messageLines,
		footer,
		ModalTypeInfo,
		modalWidth,
		width,
		height,
	)
}

func renderVoiceTranscribing(spinnerView string, modalWidth, width, height int) string {
	line := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(spinnerView + " מתמלל...")

	messageLines := []string{line}

	// Esc hides the modal; the transcription itself keeps running.
	footer := FormatFooter("Esc", "סגירה")

	return RenderThreeSectionModal(
		"🎤 תמלול קובץ שמע",
		messageLines,
		footer,
		ModalTypeInfo,
		modalWidth,
		width,
		height,
	)
}
