package model

import (
	"strings"
	"testing"
)

func assistantWithParts(parts ...Part) *Message {
	msg := NewAssistantMessage()
	msg.Parts = parts
	return &msg
}

func TestGetToolSteps(t *testing.T) {
	monthInput := map[string]any{"month": float64(6), "year": float64(2025)}

	tests := []struct {
		name     string
		msg      *Message
		expected []ToolStep
	}{
		{
			name:     "nil message",
			msg:      nil,
			expected: nil,
		},
		{
			name: "user message has no steps",
			msg: func() *Message {
				m := NewUserMessage("שלום")
				return &m
			}(),
			expected: nil,
		},
		{
			name: "text parts are skipped",
			msg:  assistantWithParts(TextPart{Text: "בודק"}),
		},
		{
			name: "propose action is excluded",
			msg: assistantWithParts(
				ToolPart{ToolCallID: "c1", ToolName: ToolProposeAction, State: ToolOutputAvailable},
				ToolPart{ToolCallID: "c2", ToolName: "getGoals", State: ToolInputAvailable},
			),
			expected: []ToolStep{
				{ToolName: "getGoals", Label: "יעדי העסק", Icon: "🎯"},
			},
		},
		{
			name: "repeated tool and input collapse to one step",
			msg: assistantWithParts(
				ToolPart{ToolCallID: "c1", ToolName: "getMonthlySummary", Input: monthInput, State: ToolOutputAvailable},
				ToolPart{ToolCallID: "c2", ToolName: "getMonthlySummary", Input: map[string]any{"month": float64(6), "year": float64(2025)}, State: ToolOutputAvailable},
			),
			expected: []ToolStep{
				{ToolName: "getMonthlySummary", Label: "סיכום חודשי", Icon: "📊", Detail: "6/2025"},
			},
		},
		{
			name: "different inputs stay separate",
			msg: assistantWithParts(
				ToolPart{ToolCallID: "c1", ToolName: "getMonthlySummary", Input: map[string]any{"month": float64(5), "year": float64(2025)}, State: ToolOutputAvailable},
				ToolPart{ToolCallID: "c2", ToolName: "getMonthlySummary", Input: monthInput, State: ToolOutputAvailable},
			),
			expected: []ToolStep{
				{ToolName: "getMonthlySummary", Label: "סיכום חודשי", Icon: "📊", Detail: "5/2025"},
				{ToolName: "getMonthlySummary", Label: "סיכום חודשי", Icon: "📊", Detail: "6/2025"},
			},
		},
		{
			name: "unknown tool falls back to generic meta",
			msg: assistantWithParts(
				ToolPart{ToolCallID: "c1", ToolName: "someNewTool", State: ToolInputStreaming},
			),
			expected: []ToolStep{
				{ToolName: "someNewTool", Label: "someNewTool", Icon: "🔧"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := GetToolSteps(tt.msg)

			if len(steps) != len(tt.expected) {
				t.Fatalf("step count: got %d, want %d", len(steps), len(tt.expected))
			}
			for i, step := range steps {
				want := tt.expected[i]
				if step.ToolName != want.ToolName {
					t.Errorf("step %d tool: got %q, want %q", i, step.ToolName, want.ToolName)
				}
				if step.Label != want.Label {
					t.Errorf("step %d label: got %q, want %q", i, step.Label, want.Label)
				}
				if step.Icon != want.Icon {
					t.Errorf("step %d icon: got %q, want %q", i, step.Icon, want.Icon)
				}
				if step.Detail != want.Detail {
					t.Errorf("step %d detail: got %q, want %q", i, step.Detail, want.Detail)
				}
			}
		})
	}
}

func TestGetToolStepsSummaries(t *testing.T) {
	tests := []struct {
		name     string
		toolName string
		state    ToolState
		output   map[string]any
		expected string
	}{
		{
			name:     "no summary before output",
			toolName: "getMonthlySummary",
			state:    ToolInputAvailable,
			expected: "",
		},
		{
			name:     "monthly income",
			toolName: "getMonthlySummary",
			state:    ToolOutputAvailable,
			output:   map[string]any{"total_income": float64(1200)},
			expected: "הכנסות: ₪1,200",
		},
		{
			name:     "zero income reads as no data",
			toolName: "getMonthlySummary",
			state:    ToolOutputAvailable,
			output:   map[string]any{"total_income": float64(0)},
			expected: "אין נתונים עדיין",
		},
		{
			name:     "query row count",
			toolName: "queryDatabase",
			state:    ToolOutputAvailable,
			output:   map[string]any{"rows": []any{1, 2, 3}},
			expected: "3 תוצאות",
		},
		{
			name:     "query count field",
			toolName: "queryDatabase",
			state:    ToolOutputAvailable,
			output:   map[string]any{"count": float64(5)},
			expected: "5 תוצאות",
		},
		{
			name:     "calculation result",
			toolName: "calculate",
			state:    ToolOutputAvailable,
			output:   map[string]any{"result": float64(12.5)},
			expected: "תוצאה: 12.50",
		},
		{
			name:     "unshaped output falls back to done",
			toolName: "getMonthlySummary",
			state:    ToolOutputAvailable,
			output:   map[string]any{"something": "else"},
			expected: "הושלם",
		},
		{
			name:     "tool without summarizer",
			toolName: "getSchedule",
			state:    ToolOutputAvailable,
			output:   map[string]any{"shifts": []any{}},
			expected: "הושלם",
		},
		{
			name:     "error output wins over summarizer",
			toolName: "getMonthlySummary",
			state:    ToolOutputAvailable,
			output:   map[string]any{"error": "timeout", "total_income": float64(100)},
			expected: "שגיאה: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := assistantWithParts(ToolPart{
				ToolCallID: "c1",
				ToolName:   tt.toolName,
				State:      tt.state,
				Output:     tt.output,
			})
			steps := GetToolSteps(msg)
			if len(steps) != 1 {
				t.Fatalf("step count: got %d, want 1", len(steps))
			}
			if steps[0].Summary != tt.expected {
				t.Errorf("summary: got %q, want %q", steps[0].Summary, tt.expected)
			}
		})
	}
}

func TestErrorSummaryTruncation(t *testing.T) {
	long := strings.Repeat("ש", 200)
	msg := assistantWithParts(ToolPart{
		ToolCallID: "c1",
		ToolName:   "queryDatabase",
		State:      ToolOutputAvailable,
		Output:     map[string]any{"error": long},
	})

	steps := GetToolSteps(msg)
	if len(steps) != 1 {
		t.Fatalf("step count: got %d, want 1", len(steps))
	}

	summary := steps[0].Summary
	if !strings.HasPrefix(summary, "שגיאה: ") {
		t.Errorf("summary prefix: got %q", summary)
	}
	if !strings.HasSuffix(summary, "...") {
		t.Errorf("summary should be truncated, got %q", summary)
	}
	wantLen := len([]rune("שגיאה: ")) + 80 + 3
	if got := len([]rune(summary)); got != wantLen {
		t.Errorf("summary rune length: got %d, want %d", got, wantLen)
	}
}

func TestGroupSteps(t *testing.T) {
	done := ToolStep{ToolName: "queryDatabase", Label: "שאילתת נתונים", State: ToolOutputAvailable}
	running := ToolStep{ToolName: "queryDatabase", Label: "שאילתת נתונים", State: ToolInputAvailable}
	other := ToolStep{ToolName: "calculate", Label: "חישוב", State: ToolOutputAvailable}

	tests := []struct {
		name       string
		steps      []ToolStep
		wantCounts []int
		wantDone   []bool
	}{
		{
			name:       "empty",
			steps:      nil,
			wantCounts: nil,
		},
		{
			name:       "consecutive same tool collapses",
			steps:      []ToolStep{done, done, done},
			wantCounts: []int{3},
			wantDone:   []bool{true},
		},
		{
			name:       "one running member keeps the group open",
			steps:      []ToolStep{done, running},
			wantCounts: []int{2},
			wantDone:   []bool{false},
		},
		{
			name:       "interleaved tools never merge",
			steps:      []ToolStep{done, other, done},
			wantCounts: []int{1, 1, 1},
			wantDone:   []bool{true, true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := GroupSteps(tt.steps)
			if len(groups) != len(tt.wantCounts) {
				t.Fatalf("group count: got %d, want %d", len(groups), len(tt.wantCounts))
			}
			for i, g := range groups {
				if g.Count() != tt.wantCounts[i] {
					t.Errorf("group %d size: got %d, want %d", i, g.Count(), tt.wantCounts[i])
				}
				if g.AllDone != tt.wantDone[i] {
					t.Errorf("group %d done: got %v, want %v", i, g.AllDone, tt.wantDone[i])
				}
			}
		})
	}
}

func TestFormatShekels(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"zero", 0, "₪0"},
		{"small whole", 585, "₪585"},
		{"thousands grouped", 1200, "₪1,200"},
		{"fraction keeps two digits", 1200.5, "₪1,200.50"},
		{"millions", 1234567.89, "₪1,234,567.89"},
		{"negative sign leads", -350, "-₪350"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatShekels(tt.amount); got != tt.expected {
				t.Errorf("FormatShekels(%v) = %q, want %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestToolStatusLabel(t *testing.T) {
	if got := ToolStatusLabel("getMonthlySummary"); got != "בודק נתונים חודשיים..." {
		t.Errorf("known tool status: got %q", got)
	}
	if got := ToolStatusLabel("mysteryTool"); got != "עובד על זה..." {
		t.Errorf("unknown tool status: got %q", got)
	}
}
