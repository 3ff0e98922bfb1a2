package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"pinkas/config"
)

const (
	emptyPassphraseError     = "יש להזין סיסמה"
	incorrectPassphraseError = "הסיסמה שגויה, נסו שוב"
)

// NewPassphraseInput creates a configured textinput for SSH passphrase
// entry, shared by the launch prompt and the setup wizard.
func NewPassphraseInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Width = 50
	input.CharLimit = 200
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return input
}

// RenderPassphraseModal renders a modal prompting for the SSH key
// passphrase.
func RenderPassphraseModal(
	title string,
	keyPath string,
	passphraseInput textinput.Model,
	errorMsg string,
	width int,
	height int,
) string {
	if width < 20 || height < 10 {
		return "המסך קטן מדי"
	}

	modalWidth := 70
	if width < modalWidth+10 {
		modalWidth = width - 10
		if modalWidth < 10 {
			modalWidth = 10
		}
	}

	var messageLines []string
	messageLines = append(messageLines, centerTextLine("מפתח ה-SSH המאחסן את ההרשאות מוצפן בסיסמה.", modalWidth))
	messageLines = append(messageLines, centerTextLine(fmt.Sprintf("מפתח: %s", keyPath), modalWidth))
	messageLines = append(messageLines, strings.Repeat(" ", modalWidth))
	messageLines = append(messageLines, centerTextLine(passphraseInput.View(), modalWidth))

	if errorMsg != "" {
		messageLines = append(messageLines, strings.Repeat(" ", modalWidth))
		styledErr := lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true).
			Render("⚠ " + errorMsg)
		messageLines = append(messageLines, centerTextLine(styledErr, modalWidth))
	}

	return RenderThreeSectionModal(
		title,
		messageLines,
		FormatFooter("Enter", "המשך", "Esc", "ביטול"),
		ModalTypeInfo,
		modalWidth,
		width,
		height,
	)
}

// centerTextLine centers a line of text within a given width
func centerTextLine(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}

	leftPad := (width - textWidth) / 2
	rightPad := width - textWidth - leftPad
	return strings.Repeat(" ", leftPad) + text + strings.Repeat(" ", rightPad)
}

// LoadCredentialsWithPassphrase unlocks the credential store with the
// given passphrase. Fails when the passphrase is wrong or the encrypted
// file is unreadable.
func LoadCredentialsWithPassphrase(store *config.CredentialStore, dataDir, passphrase string) error {
	store.SetPassphrase(passphrase)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[passphrase] attempting credential load")
	}

	if err := store.Load(dataDir); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[passphrase] credential load failed: %v", err)
		}
		return err
	}

	return nil
}

// IncorrectPassphraseError is the message the launch retry loop shows
// after a failed unlock.
func IncorrectPassphraseError() string {
	return incorrectPassphraseError
}
