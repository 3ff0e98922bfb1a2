package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PassphraseModal prompts for the SSH key passphrase before the main UI
// starts. errMsg carries the failure from a previous attempt so the retry
// loop in main can say why it is asking again.
type PassphraseModal struct {
	keyPath   string
	input     textinput.Model
	err       string
	width     int
	height    int
	cancelled bool
}

func NewPassphraseModal(keyPath, errMsg string) PassphraseModal {
	input := NewPassphraseInput("סיסמת המפתח")
	input.Focus()

	return PassphraseModal{
		keyPath: keyPath,
		input:   input,
		err:     errMsg,
	}
}

func (m PassphraseModal) Init() tea.Cmd {
	return textinput.Blink
}

func (m PassphraseModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if m.input.Value() == "" {
				m.err = emptyPassphraseError
				return m, nil
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PassphraseModal) View() string {
	return RenderPassphraseModal(
		"נדרשת סיסמה למפתח SSH",
		m.keyPath,
		m.input,
		m.err,
		m.width,
		m.height,
	)
}

// GetPassphrase returns the entered passphrase (empty if cancelled)
func (m PassphraseModal) GetPassphrase() string {
	if m.cancelled {
		return ""
	}
	return m.input.Value()
}

// IsCancelled returns true if user pressed Esc
func (m PassphraseModal) IsCancelled() bool {
	return m.cancelled
}
