package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InstanceLockedModal is shown when another running copy of the app holds
// the data directory. The user can exit or force delete the lock, for the
// case where a crash left a stale lock behind a recycled PID.
type InstanceLockedModal struct {
	runningPID  int
	width       int
	height      int
	forceDelete bool
}

func NewInstanceLockedModal(runningPID int) InstanceLockedModal {
	return InstanceLockedModal{runningPID: runningPID}
}

func (m InstanceLockedModal) Init() tea.Cmd {
	return nil
}

func (m InstanceLockedModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "ctrl+c":
			return m, tea.Quit
		case "d", "D":
			m.forceDelete = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// ForceDelete reports whether the user chose to delete the lock file and
// continue anyway.
func (m InstanceLockedModal) ForceDelete() bool {
	return m.forceDelete
}

func (m InstanceLockedModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "המסך קטן מדי"
	}

	modalWidth := 60
	if m.width < modalWidth+10 {
		modalWidth = m.width - 10
	}

	message := fmt.Sprintf(
		"עותק אחר של פנקס כבר רץ (PID %d).\n\n"+
			"יומן הפעולות המקומי נפתח על ידי תהליך אחד בלבד,\n"+
			"לכן אפשר להריץ עותק אחד בכל פעם.\n\n"+
			"סגרו את העותק האחר, או הקישו D למחיקת\n"+
			"קובץ הנעילה אם אתם בטוחים שלא רץ עותק נוסף.",
		m.runningPID)

	messageStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center)

	var messageLines []string
	for _, line := range strings.Split(message, "\n") {
		messageLines = append(messageLines, messageStyle.Render(line))
	}

	return RenderThreeSectionModal(
		"⚠ פנקס כבר פתוח",
		messageLines,
		FormatFooter("Enter", "יציאה", "D", "מחיקת הנעילה"),
		ModalTypeWarning,
		modalWidth,
		m.width,
		m.height,
	)
}
