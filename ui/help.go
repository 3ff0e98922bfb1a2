package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("פנקס - קיצורי מקלדת")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	globalActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## פעולות כלליות"),
		fmt.Sprintf("• %-11s שיחה חדשה", "Alt+N"),
		fmt.Sprintf("• %-11s בחירת עסק", "Alt+B"),
		fmt.Sprintf("• %-11s חיפוש בהיסטוריה", "Alt+F"),
		fmt.Sprintf("• %-11s יומן פעולות", "Alt+L"),
		fmt.Sprintf("• %-11s תמלול קובץ שמע", "Alt+T"),
		fmt.Sprintf("• %-11s עזרה", "Alt+H"),
		fmt.Sprintf("• %-11s יציאה", "Alt+Q"),
	)

	chatNavigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## ניווט בשיחה"),
		fmt.Sprintf("• %-11s גלילה חצי מסך", "Alt+J/K"),
		fmt.Sprintf("• %-11s גלילה מסך מלא", "Alt+Shift+J/K"),
		fmt.Sprintf("• %-11s קפיצה להתחלה", "Alt+G"),
		fmt.Sprintf("• %-11s קפיצה לסוף", "Alt+Shift+G"),
	)

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## פעולות בשיחה"),
		fmt.Sprintf("• %-11s שליחת הודעה", "Enter"),
		fmt.Sprintf("• %-11s שורה חדשה", "Alt+Enter"),
		fmt.Sprintf("• %-11s עצירת תשובה", "Esc"),
		fmt.Sprintf("• %-11s העתקת תשובה אחרונה", "Alt+Y"),
		fmt.Sprintf("• %-11s העתקת כל השיחה", "Alt+C"),
	)

	cardActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## אישור פעולות"),
		fmt.Sprintf("• %-11s מיקוד בכרטיס הבא", "Tab"),
		fmt.Sprintf("• %-11s אישור הפעולה", "y"),
		fmt.Sprintf("• %-11s דחיית הפעולה", "n"),
	)

	column1 := lipgloss.JoinVertical(
		lipgloss.Left,
		globalActions,
		"",
		cardActions,
	)

	column2 := lipgloss.JoinVertical(
		lipgloss.Left,
		chatNavigation,
		"",
		chatActions,
	)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(6)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"    ",
		columnStyle.Render(column2),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render("      Alt+H או Esc לסגירת העזרה")

	versionLine := ""
	if a.dataModel.Version != "" {
		versionLine = DimStyle.Render("גרסה " + a.dataModel.Version)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		versionLine,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2).
		Width(96)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
