package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pinkas/model"
	"pinkas/storage"
)

// auditViewLimit caps how many decisions the audit view requests.
const auditViewLimit = 50

// renderAuditView draws the local decision log: every action the user
// confirmed or rejected on this machine, newest first.
func (a *AppView) renderAuditView() string {
	modalWidth := a.width - 6
	if modalWidth > 90 {
		modalWidth = 90
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("📒 יומן פעולות")

	var body string
	switch {
	case a.auditLoading:
		body = DimStyle.Render("טוען... ") + a.loadingSpinner.View()
	case len(a.auditEntries) == 0:
		body = DimStyle.Render("עדיין לא אושרו או נדחו פעולות במכשיר הזה")
	default:
		body = renderAuditRows(a.auditEntries, modalWidth-6, a.height-12)
	}

	footer := FormatFooter("r", "רענון", "Esc", "סגירה")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		body,
		"",
		footer,
	)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}

func renderAuditRows(entries []model.AuditEntryView, width, maxRows int) string {
	if maxRows < 3 {
		maxRows = 3
	}
	shown := entries
	if len(shown) > maxRows {
		shown = shown[:maxRows]
	}

	// Fixed columns keep the table readable; the business name absorbs
	// whatever width remains.
	timeWidth := 16
	outcomeWidth := 10
	actionWidth := 18
	bizWidth := width - timeWidth - outcomeWidth - actionWidth - 6
	if bizWidth < 8 {
		bizWidth = 8
	}

	var b strings.Builder
	for _, e := range shown {
		b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
			DimStyle.Render(padCell(e.Timestamp, timeWidth)),
			padCell(e.Business, bizWidth),
			padCell(e.ActionType, actionWidth),
			outcomeCell(e),
		))
	}

	if len(entries) > len(shown) {
		b.WriteString(DimStyle.Render(fmt.Sprintf("... ועוד %d רשומות", len(entries)-len(shown))))
	}

	return strings.TrimRight(b.String(), "\n")
}

func outcomeCell(e model.AuditEntryView) string {
	switch {
	case e.Decision == storage.DecisionRejected:
		return DimStyle.Render("נדחה")
	case e.Outcome == storage.OutcomeSuccess:
		return SuccessStyle.Render("✓ בוצע")
	default:
		return ErrorStyle.Render("✗ נכשל")
	}
}

// padCell truncates or pads a value to a fixed display width. Hebrew and
// emoji are wider than their rune count, so padding goes by cell width.
func padCell(s string, width int) string {
	s = runewidth.Truncate(s, width, "…")
	return s + strings.Repeat(" ", max(width-runewidth.StringWidth(s), 0))
}
