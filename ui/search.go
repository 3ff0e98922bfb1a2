package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pinkas/model"
)

// renderSearch draws the history-search overlay: local hits from the
// loaded conversation merged with server results, newest first as the
// server returns them.
func (a *AppView) renderSearch() string {
	modalWidth := a.width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("🔍 חיפוש בהיסטוריה")
	searchView := a.searchInput.View()

	search := a.dataModel.Search
	resultsView := ""
	switch {
	case len(search.Results) == 0 && search.Loading:
		resultsView = DimStyle.Render("מחפש... ") + a.loadingSpinner.View()
	case len(search.Results) == 0 && len([]rune(strings.TrimSpace(a.searchInput.Value()))) < model.MinSearchLength:
		resultsView = DimStyle.Render("הקלידו לפחות שני תווים לחיפוש...")
	case len(search.Results) == 0:
		resultsView = DimStyle.Render("לא נמצאו תוצאות")
	default:
		resultsView = a.renderSearchResults(search.Results, search.Selected, search.Loading)
	}

	footer := FormatFooter("Alt+J/K", "ניווט", "Enter", "מעבר להודעה", "Esc", "סגירה")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchView,
		"",
		resultsView,
		"",
		footer,
	)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}

func (a *AppView) renderSearchResults(results []model.SearchHit, selectedIdx int, loading bool) string {
	// Border(2) + Padding(2) + Title(1) + Blank(1) + Input(1) + Blank(1) +
	// Count(1) + Blank(1) + Footer(1) + Blank(1) = 12 lines of overhead.
	fixedOverhead := 12
	scrollIndicatorSpace := 4

	availableLines := a.height - fixedOverhead - scrollIndicatorSpace
	if availableLines < 3 {
		availableLines = 3
	}

	// Each hit takes up to three lines with wrapping slack.
	linesPerResult := 4
	maxVisible := availableLines / linesPerResult
	if maxVisible < 1 {
		maxVisible = 1
	}

	startIdx := 0
	if selectedIdx >= maxVisible {
		startIdx = selectedIdx - maxVisible + 1
	}
	endIdx := startIdx + maxVisible
	if endIdx > len(results) {
		endIdx = len(results)
	}

	countLine := fmt.Sprintf("%d תוצאות", len(results))
	if loading {
		countLine += DimStyle.Render("  (מחפש עוד...)")
	}
	view := countLine + "\n\n"

	if startIdx > 0 {
		view += DimStyle.Render(fmt.Sprintf("↑ עוד %d למעלה", startIdx)) + "\n\n"
	}

	for i := startIdx; i < endIdx; i++ {
		hit := results[i]

		roleStyle := UserStyle
		roleName := "אני"
		if hit.Role == model.RoleAssistant {
			roleStyle = AssistantStyle
			roleName = "העוזר"
		}

		header := fmt.Sprintf("%s · %s", roleStyle.Render(roleName), DimStyle.Render(hit.SessionTitle))
		if !hit.Timestamp.IsZero() {
			header += " " + DimStyle.Render(hit.Timestamp.Format("[02/01 15:04]"))
		}

		entry := header + "\n  " + highlightMatch(hit.Snippet, a.searchInput.Value())
		if i == selectedIdx {
			entry = SelectedStyle.Render("> ") + entry
		} else {
			entry = "  " + entry
		}

		view += entry + "\n\n"
	}

	if endIdx < len(results) {
		view += DimStyle.Render(fmt.Sprintf("↓ עוד %d למטה", len(results)-endIdx))
	}

	return strings.TrimRight(view, "\n")
}

// highlightMatch emphasizes the first query occurrence inside a snippet.
func highlightMatch(snippet, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return snippet
	}

	idx := strings.Index(snippet, query)
	if idx < 0 {
		// Case-insensitive fallback. Lowercasing must not shift byte
		// offsets, or the slice below would split a rune; Hebrew and
		// ASCII both keep their length.
		lowerSnippet := strings.ToLower(snippet)
		lowerQuery := strings.ToLower(query)
		if len(lowerSnippet) != len(snippet) || len(lowerQuery) != len(query) {
			return snippet
		}
		idx = strings.Index(lowerSnippet, lowerQuery)
		if idx < 0 {
			return snippet
		}
	}

	end := idx + len(query)
	return snippet[:idx] + HighlightStyle.Render(snippet[idx:end]) + snippet[end:]
}
