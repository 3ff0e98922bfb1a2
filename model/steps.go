package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ToolProposeAction is the tool the model uses to propose a database-altering
// action. It is rendered as an action card, never as a tool step.
const ToolProposeAction = "proposeAction"

// ToolStep is one deduplicated tool invocation prepared for display.
type ToolStep struct {
	Key      string
	ToolName string
	Label    string
	Icon     string
	Detail   string
	State    ToolState
	Summary  string
}

// Done reports whether the step's tool finished executing.
func (s ToolStep) Done() bool {
	return s.State == ToolOutputAvailable
}

// StepGroup collapses a run of consecutive steps sharing one tool.
type StepGroup struct {
	ToolName string
	Label    string
	Icon     string
	Steps    []ToolStep
	AllDone  bool
}

// Count returns the number of steps in the group.
func (g StepGroup) Count() int {
	return len(g.Steps)
}

type toolMeta struct {
	Label  string
	Icon   string
	Status string
	// Detail renders a short argument hint from the tool input.
	Detail func(input map[string]any) string
	// Summarize renders a one-line result from the tool output. The error
	// key is handled centrally before Summarize runs.
	Summarize func(output map[string]any) string
}

var toolRegistry = map[string]toolMeta{
	"getMonthlySummary": {
		Label:     "סיכום חודשי",
		Icon:      "📊",
		Status:    "בודק נתונים חודשיים...",
		Detail:    monthYearDetail,
		Summarize: summarizeIncome,
	},
	"queryDatabase": {
		Label:     "שאילתת נתונים",
		Icon:      "🔍",
		Status:    "מחפש בנתוני העסק...",
		Detail:    descriptionDetail,
		Summarize: summarizeRowCount,
	},
	"getSchedule": {
		Label:  "לוח משמרות",
		Icon:   "📅",
		Status: "בודק את לוח המשמרות...",
	},
	"getGoals": {
		Label:  "יעדי העסק",
		Icon:   "🎯",
		Status: "בודק את יעדי העסק...",
	},
	"calculate": {
		Label:     "חישוב",
		Icon:      "🧮",
		Status:    "מחשב...",
		Detail:    expressionDetail,
		Summarize: summarizeCalculation,
	},
}

var genericMeta = toolMeta{Icon: "🔧", Status: "עובד על זה..."}

func metaFor(toolName string) toolMeta {
	if meta, ok := toolRegistry[toolName]; ok {
		return meta
	}
	meta := genericMeta
	meta.Label = toolName
	return meta
}

// ToolStatusLabel returns the in-flight status line for a tool, used by the
// thinking-status derivation while the tool has not produced output.
func ToolStatusLabel(toolName string) string {
	return metaFor(toolName).Status
}

// GetToolSteps extracts the display steps from an assistant message.
// Repeated (toolName, input) pairs collapse to one step; order is
// first-seen. The propose-action tool is excluded. Pure function.
func GetToolSteps(msg *Message) []ToolStep {
	if msg == nil || msg.Role != RoleAssistant {
		return nil
	}

	var steps []ToolStep
	seen := make(map[string]bool)

	for _, part := range msg.Parts {
		tp, ok := part.(ToolPart)
		if !ok || tp.ToolName == ToolProposeAction {
			continue
		}

		key := stepKey(tp.ToolName, tp.Input)
		if seen[key] {
			continue
		}
		seen[key] = true

		meta := metaFor(tp.ToolName)
		step := ToolStep{
			Key:      key,
			ToolName: tp.ToolName,
			Label:    meta.Label,
			Icon:     meta.Icon,
			State:    tp.State,
		}
		if meta.Detail != nil && tp.Input != nil {
			step.Detail = meta.Detail(tp.Input)
		}
		if tp.State == ToolOutputAvailable {
			step.Summary = summarize(meta, tp.Output)
		}
		steps = append(steps, step)
	}

	return steps
}

// GroupSteps collapses consecutive same-tool steps into groups without
// reordering. A group is AllDone only when every member finished.
func GroupSteps(steps []ToolStep) []StepGroup {
	var groups []StepGroup
	for _, step := range steps {
		if n := len(groups); n > 0 && groups[n-1].ToolName == step.ToolName {
			g := &groups[n-1]
			g.Steps = append(g.Steps, step)
			g.AllDone = g.AllDone && step.Done()
			continue
		}
		groups = append(groups, StepGroup{
			ToolName: step.ToolName,
			Label:    step.Label,
			Icon:     step.Icon,
			Steps:    []ToolStep{step},
			AllDone:  step.Done(),
		})
	}
	return groups
}

// stepKey builds the dedup identity: tool name plus a canonical
// serialization of the input. encoding/json sorts map keys at every level,
// so equal inputs always serialize identically.
func stepKey(toolName string, input map[string]any) string {
	raw, err := json.Marshal(input)
	if err != nil {
		return toolName + ":" + fmt.Sprintf("%v", input)
	}
	return toolName + ":" + string(raw)
}

func summarize(meta toolMeta, output map[string]any) string {
	if output == nil {
		return ""
	}
	if errVal, ok := output["error"]; ok && errVal != nil {
		return summarizeError(errVal)
	}
	if meta.Summarize != nil {
		if s := meta.Summarize(output); s != "" {
			return s
		}
	}
	return "הושלם"
}

// summarizeError renders a tool-level failure, truncated so one bad tool
// result cannot flood the step list.
func summarizeError(errVal any) string {
	text := fmt.Sprintf("%v", errVal)
	runes := []rune(text)
	if len(runes) > 80 {
		text = string(runes[:80]) + "..."
	}
	return "שגיאה: " + text
}

// summarizeIncome renders the monthly total. Zero income is shown as "no
// data yet": the backend's summary tool returns zero both for an empty
// month and for a genuinely zero day, and the dashboard displays both the
// same way.
func summarizeIncome(output map[string]any) string {
	total, ok := toFloat(output["total_income"])
	if !ok {
		return ""
	}
	if total == 0 {
		return "אין נתונים עדיין"
	}
	return "הכנסות: " + FormatShekels(total)
}

func summarizeRowCount(output map[string]any) string {
	if rows, ok := output["rows"].([]any); ok {
		return fmt.Sprintf("%d תוצאות", len(rows))
	}
	if count, ok := toFloat(output["count"]); ok {
		return fmt.Sprintf("%d תוצאות", int(count))
	}
	return ""
}

func summarizeCalculation(output map[string]any) string {
	result, ok := toFloat(output["result"])
	if !ok {
		return ""
	}
	return "תוצאה: " + formatNumber(result)
}

func monthYearDetail(input map[string]any) string {
	month, mok := toFloat(input["month"])
	year, yok := toFloat(input["year"])
	if !mok || !yok {
		return ""
	}
	return fmt.Sprintf("%d/%d", int(month), int(year))
}

func descriptionDetail(input map[string]any) string {
	desc, _ := input["description"].(string)
	runes := []rune(desc)
	if len(runes) > 40 {
		desc = string(runes[:40]) + "..."
	}
	return desc
}

func expressionDetail(input map[string]any) string {
	expr, _ := input["expression"].(string)
	return expr
}

// FormatAmount formats a plain number with thousands grouping: 1,200 for
// whole values, 1,200.50 otherwise.
func FormatAmount(v float64) string {
	return formatNumber(v)
}

// Numeric coerces a decoded JSON value to float64.
func Numeric(v any) (float64, bool) {
	return toFloat(v)
}

// FormatShekels formats an amount as shekel currency: ₪1,200 for whole
// amounts, ₪1,200.50 otherwise.
func FormatShekels(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "₪" + formatNumber(amount)
}

func formatNumber(v float64) string {
	var s string
	if v == math.Trunc(v) {
		s = fmt.Sprintf("%.0f", v)
	} else {
		s = fmt.Sprintf("%.2f", v)
	}
	return groupThousands(s)
}

func groupThousands(s string) string {
	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
