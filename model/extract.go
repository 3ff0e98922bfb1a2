package model

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ChartSpec is a chart embedded by the model in a ```chart fenced block.
type ChartSpec struct {
	Type     string           `json:"type"`
	Title    string           `json:"title"`
	XAxisKey string           `json:"xAxisKey"`
	Data     []map[string]any `json:"data"`
	DataKeys []DataKey        `json:"dataKeys"`
}

// DataKey names one plotted series.
type DataKey struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// chartFenceRegex matches a fenced code block tagged as chart data. Only
// the chart tag is matched, so ordinary code fences survive extraction.
var chartFenceRegex = regexp.MustCompile("(?s)```chart\\s*\\n(.*?)```")

// DisplayText returns the message's renderable text: all text parts in
// order, with the first chart fence (if any) removed and whitespace
// trimmed. Unrelated fenced blocks are left alone.
func DisplayText(msg *Message) string {
	text := msg.TextContent()
	if loc := chartFenceRegex.FindStringIndex(text); loc != nil {
		text = text[:loc[0]] + text[loc[1]:]
	}
	return strings.TrimSpace(text)
}

// ChartData parses the message's embedded chart block. Any parse failure
// means the message simply has no chart.
func ChartData(msg *Message) (*ChartSpec, bool) {
	match := chartFenceRegex.FindStringSubmatch(msg.TextContent())
	if match == nil {
		return nil, false
	}
	var spec ChartSpec
	if err := json.Unmarshal([]byte(match[1]), &spec); err != nil {
		return nil, false
	}
	return &spec, true
}

// ProposedActionOf returns the message's proposed action: the first
// propose-action tool part whose execution finished, succeeded, and named
// an action type. Everything else is absence, never an error.
func ProposedActionOf(msg *Message) (*ProposedAction, bool) {
	if msg == nil || msg.Role != RoleAssistant {
		return nil, false
	}
	for _, part := range msg.Parts {
		tp, ok := part.(ToolPart)
		if !ok || tp.ToolName != ToolProposeAction {
			continue
		}
		if tp.State != ToolOutputAvailable || tp.Output == nil {
			continue
		}
		if success, _ := tp.Output["success"].(bool); !success {
			continue
		}
		action := DecodeProposedAction(tp.Output)
		if action == nil || action.ActionType == "" {
			continue
		}
		action.ToolCallID = tp.ToolCallID
		return action, true
	}
	return nil, false
}
