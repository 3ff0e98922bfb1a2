package model_test

import (
	"context"
	"testing"

	"pinkas/api/testutil"
	"pinkas/model"
)

// TestSearchDebounceFlow walks the full search path: keystroke, debounce
// tick, server query, merge. The debounce command really waits, so this
// test takes a few hundred milliseconds.
func TestSearchDebounceFlow(t *testing.T) {
	mock := testutil.NewMockBackend()
	queried := ""
	mock.SearchHistoryFunc = func(ctx context.Context, query string) ([]model.SearchHit, error) {
		queried = query
		return []model.SearchHit{
			{ID: "srv_1", SessionID: "sess_3", SessionTitle: "אפריל", Snippet: "הוצאות אפריל"},
		}, nil
	}

	m := newTestModel(mock)
	assistant := model.NewAssistantMessage()
	assistant.AppendText("סך ההוצאות בחודש מאי: ₪31,000")
	m.Messages = append(m.Messages, assistant)
	m.OpenSearch()

	tick := m.SetSearchQuery("הוצאות")
	if tick == nil {
		t.Fatal("no debounce command scheduled")
	}
	if len(m.Search.Results) != 1 {
		t.Fatalf("local hits: got %d, want 1", len(m.Search.Results))
	}

	debounce, ok := tick().(model.SearchDebounceMsg)
	if !ok {
		t.Fatal("debounce command returned the wrong message type")
	}
	if debounce.Query != "הוצאות" {
		t.Errorf("debounced query: got %q", debounce.Query)
	}

	search := m.HandleSearchDebounce(debounce)
	if search == nil {
		t.Fatal("debounce tick did not fire the server search")
	}
	results, ok := search().(model.SearchResultsMsg)
	if !ok {
		t.Fatal("search command returned the wrong message type")
	}
	if queried != "הוצאות" {
		t.Errorf("server query: got %q", queried)
	}

	m.HandleSearchResults(results)
	if m.Search.Loading {
		t.Error("loading flag still set")
	}
	if len(m.Search.Results) != 2 {
		t.Fatalf("merged hits: got %d, want 2", len(m.Search.Results))
	}
	if m.Search.Results[0].SessionTitle != "שיחה נוכחית" {
		t.Errorf("local hit not first: %+v", m.Search.Results[0])
	}
	if m.Search.Results[1].ID != "srv_1" {
		t.Errorf("server hit not merged: %+v", m.Search.Results[1])
	}

	// Results that arrive after the query moved on must be discarded.
	m.SetSearchQuery("משכורות")
	m.HandleSearchResults(results)
	for _, hit := range m.Search.Results {
		if hit.ID == "srv_1" {
			t.Error("stale server hit merged into the new query")
		}
	}
}

// A tick that fires after the query changed must not reach the server.
func TestSupersededDebounceTickDropped(t *testing.T) {
	mock := testutil.NewMockBackend()
	searched := 0
	mock.SearchHistoryFunc = func(ctx context.Context, query string) ([]model.SearchHit, error) {
		searched++
		return nil, nil
	}

	m := newTestModel(mock)
	firstTick := m.SetSearchQuery("הוצאות")
	m.SetSearchQuery("הוצאות מאי")

	stale, ok := firstTick().(model.SearchDebounceMsg)
	if !ok {
		t.Fatal("debounce command returned the wrong message type")
	}
	if cmd := m.HandleSearchDebounce(stale); cmd != nil {
		t.Error("superseded tick fired a server search")
	}
	if searched != 0 {
		t.Errorf("server searches: got %d, want 0", searched)
	}
}
