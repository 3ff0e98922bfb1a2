package model

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"pinkas/config"
)

// SearchDebounce is how long typing must pause before the server search
// fires. Local filtering of the loaded conversation happens on every
// keystroke regardless.
const SearchDebounce = 300 * time.Millisecond

// MinSearchLength is the shortest query that triggers a search.
const MinSearchLength = 2

const currentSessionTitle = "שיחה נוכחית"

// SearchState holds the history-search overlay state. A generation
// counter stamps every debounce tick and server response so results from
// an abandoned query are discarded instead of overwriting fresher ones.
type SearchState struct {
	Active   bool
	Query    string
	Results  []SearchHit
	Loading  bool
	Selected int
	gen      int
}

// OpenSearch activates the search overlay with a clean slate.
func (m *Model) OpenSearch() {
	m.Search.Active = true
	m.Search.Query = ""
	m.Search.Results = nil
	m.Search.Loading = false
	m.Search.Selected = 0
	m.Search.gen++
}

// CloseSearch dismisses the overlay. The generation bump orphans any
// in-flight server search.
func (m *Model) CloseSearch() {
	m.Search.Active = false
	m.Search.Query = ""
	m.Search.Results = nil
	m.Search.Loading = false
	m.Search.gen++
}

// SetSearchQuery records a new query, refilters the loaded conversation
// immediately and schedules the debounced server search. Queries below the
// minimum length clear results without hitting the server.
func (m *Model) SetSearchQuery(query string) tea.Cmd {
	m.Search.Query = query
	m.Search.Selected = 0
	m.Search.gen++

	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < MinSearchLength {
		m.Search.Results = nil
		m.Search.Loading = false
		return nil
	}

	m.Search.Results = m.filterLoadedMessages(trimmed)
	m.Search.Loading = true

	gen := m.Search.gen
	return tea.Tick(SearchDebounce, func(time.Time) tea.Msg {
		return SearchDebounceMsg{Gen: gen, Query: trimmed}
	})
}

// HandleSearchDebounce fires the server search when the debounce tick is
// still current. Ticks from superseded queries return nil.
func (m *Model) HandleSearchDebounce(msg SearchDebounceMsg) tea.Cmd {
	if msg.Gen != m.Search.gen {
		return nil
	}
	backend := m.Backend
	return func() tea.Msg {
		hits, err := backend.SearchHistory(context.Background(), msg.Query)
		return SearchResultsMsg{Gen: msg.Gen, Results: hits, Err: err}
	}
}

// HandleSearchResults merges server hits behind the local matches. Stale
// responses and failures both leave the local matches standing.
func (m *Model) HandleSearchResults(msg SearchResultsMsg) {
	if msg.Gen != m.Search.gen {
		return
	}
	m.Search.Loading = false

	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[search] server search failed: %v", msg.Err)
		}
		return
	}

	seen := make(map[string]bool, len(m.Search.Results))
	for _, hit := range m.Search.Results {
		seen[hit.ID] = true
	}
	for _, hit := range msg.Results {
		if hit.ID != "" && seen[hit.ID] {
			continue
		}
		m.Search.Results = append(m.Search.Results, hit)
	}
	if m.Search.Selected >= len(m.Search.Results) {
		m.Search.Selected = 0
	}
}

// filterLoadedMessages matches the query against the display text of the
// conversation already on screen, so the current session answers instantly
// while the server search is still pending.
func (m *Model) filterLoadedMessages(query string) []SearchHit {
	lowered := strings.ToLower(query)
	var hits []SearchHit
	for i := range m.Messages {
		msg := &m.Messages[i]
		if msg.Role != RoleUser && msg.Role != RoleAssistant {
			continue
		}
		text := DisplayText(msg)
		if text == "" || !strings.Contains(strings.ToLower(text), lowered) {
			continue
		}
		hits = append(hits, SearchHit{
			ID:           msg.ID,
			SessionID:    m.SessionID,
			SessionTitle: currentSessionTitle,
			Role:         msg.Role,
			Snippet:      buildSnippet(text, query),
			Timestamp:    msg.Timestamp,
		})
	}
	return hits
}

// buildSnippet trims long message text to a window around the first match
// so the results list stays one line per hit.
func buildSnippet(text, query string) string {
	const radius = 40

	flattened := strings.Join(strings.Fields(text), " ")
	runes := []rune(flattened)
	queryLen := utf8.RuneCountInString(query)

	idx := strings.Index(strings.ToLower(flattened), strings.ToLower(query))
	if idx < 0 {
		if len(runes) <= 2*radius {
			return flattened
		}
		return string(runes[:2*radius]) + "…"
	}
	if idx > len(flattened) {
		idx = len(flattened)
	}
	matchStart := utf8.RuneCountInString(flattened[:idx])

	start := matchStart - radius
	if start < 0 {
		start = 0
	}
	end := matchStart + queryLen + radius
	if end > len(runes) {
		end = len(runes)
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "…" + snippet
	}
	if end < len(runes) {
		snippet += "…"
	}
	return snippet
}
