package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"

	"pinkas/config"
)

func TestRenderBusinessSelector(t *testing.T) {
	businesses := []config.Business{
		{ID: "biz_001", Name: "מאפיית הצפון"},
		{ID: "biz_002", Name: "קפה דרומי"},
	}

	got := renderBusinessSelector(businesses, 1, "biz_001", false, textinput.New(), nil, 100, 40)

	for _, want := range []string{
		"בחירת עסק",
		"2 עסקים",
		"מאפיית הצפון",
		"קפה דרומי",
		"(נוכחי)",
		"▶ ",
		"סינון",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("selector missing %q", want)
		}
	}

	// The active business carries the marker, not the highlighted one.
	for _, line := range strings.Split(got, "\n") {
		if strings.Contains(line, "(נוכחי)") && !strings.Contains(line, "מאפיית הצפון") {
			t.Errorf("marker on the wrong row: %q", line)
		}
	}
}

func TestRenderBusinessSelectorFiltered(t *testing.T) {
	businesses := []config.Business{
		{ID: "biz_001", Name: "מאפיית הצפון"},
		{ID: "biz_002", Name: "קפה דרומי"},
	}
	filtered := []config.Business{{ID: "biz_002", Name: "קפה דרומי"}}

	input := textinput.New()
	input.SetValue("קפה")

	got := renderBusinessSelector(businesses, 0, "biz_001", true, input, filtered, 100, 40)

	if !strings.Contains(got, "קפה דרומי") {
		t.Error("filtered hit missing")
	}
	if strings.Contains(got, "מאפיית הצפון") {
		t.Error("filtered-out business still listed")
	}
	if !strings.Contains(got, "ביטול") {
		t.Error("filter-mode footer missing")
	}
}

func TestRenderBusinessSelectorEmpty(t *testing.T) {
	got := renderBusinessSelector(nil, 0, "", false, textinput.New(), nil, 100, 40)
	if !strings.Contains(got, "אין עסקים מוגדרים") {
		t.Error("empty roster notice missing")
	}

	filtering := renderBusinessSelector(nil, 0, "", true, textinput.New(), nil, 100, 40)
	if !strings.Contains(filtering, "אין תוצאות") {
		t.Error("empty filter notice missing")
	}
}
