package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"pinkas/config"
)

func renderBusinessSelector(businesses []config.Business, selectedIdx int, currentID string, filterMode bool, filterInput textinput.Model, filtered []config.Business, width, height int) string {
	// Modal dimensions
	modalWidth := width - 10
	if modalWidth > 70 {
		modalWidth = 70
	}
	modalHeight := height - 6

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("בחירת עסק")

	// Header: show filter input or count
	var header string
	if filterMode {
		header = filterInput.View()
	} else {
		displayList := businesses
		if len(filtered) > 0 {
			displayList = filtered
		}
		if len(businesses) == len(displayList) {
			header = fmt.Sprintf("%d עסקים", len(businesses))
		} else {
			header = fmt.Sprintf("%d מתוך %d עסקים", len(displayList), len(businesses))
		}
	}

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(header)

	displayList := businesses
	if filterMode && len(filtered) > 0 {
		displayList = filtered
	}

	var rows []string
	maxLines := modalHeight - 8

	if len(displayList) == 0 {
		emptyMsg := "אין עסקים מוגדרים"
		if filterMode {
			emptyMsg = "אין תוצאות"
		}
		rows = append(rows, lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render(emptyMsg))
	} else {
		startIdx := 0
		endIdx := len(displayList)

		// Scroll if needed
		if len(displayList) > maxLines {
			if selectedIdx < maxLines/2 {
				endIdx = maxLines
			} else if selectedIdx >= len(displayList)-maxLines/2 {
				startIdx = len(displayList) - maxLines
			} else {
				startIdx = selectedIdx - maxLines/2
				endIdx = startIdx + maxLines
			}
		}

		for i := startIdx; i < endIdx && i < len(displayList); i++ {
			biz := displayList[i]

			indicator := "  "
			if i == selectedIdx {
				indicator = "▶ "
			}

			currentMarker := ""
			if biz.ID == currentID {
				currentMarker = " (נוכחי)"
			}

			line := fmt.Sprintf("%s%s%s  %s", indicator, biz.Name, currentMarker, DimStyle.Render(biz.ID))

			lineStyle := lipgloss.NewStyle()
			if i == selectedIdx {
				lineStyle = lineStyle.Foreground(successColor).Bold(true)
			} else if biz.ID == currentID {
				lineStyle = lineStyle.Foreground(accentColor).Bold(true)
			}

			rows = append(rows, lipgloss.NewStyle().
				Width(modalWidth).
				Render(lineStyle.Render(line)))
		}
	}

	emptyLine := strings.Repeat(" ", modalWidth)
	rows = append([]string{emptyLine}, rows...)
	rows = append(rows, emptyLine)

	var footerText string
	if filterMode {
		footerText = FormatFooter("Type", "לסינון", "Alt+J/K", "ניווט", "Enter", "בחירה", "Esc", "ביטול")
	} else {
		footerText = FormatFooter("/", "סינון", "j/k", "ניווט", "Enter", "בחירה", "Esc", "סגירה")
	}
	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerText)

	var sections []string
	sections = append(sections, titleSection)
	sections = append(sections, headerSection)
	sections = append(sections, rows...)
	sections = append(sections, footerSection)

	content := strings.Join(sections, "\n")

	modalStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return modalStyle.Render(content)
}
