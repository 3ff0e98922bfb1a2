package ui

import (
	"fmt"
	"strings"

	"pinkas/model"
)

// renderToolSteps draws the tool activity of one assistant message:
// grouped, deduplicated steps with per-step result summaries. Returns ""
// for messages without tool activity.
func (a *AppView) renderToolSteps(msg *model.Message) string {
	groups := model.GroupSteps(model.GetToolSteps(msg))
	if len(groups) == 0 {
		return ""
	}

	var b strings.Builder
	for _, group := range groups {
		b.WriteString(a.renderStepGroup(group))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *AppView) renderStepGroup(group model.StepGroup) string {
	var b strings.Builder

	header := fmt.Sprintf("%s %s", group.Icon, group.Label)
	if group.Count() > 1 {
		header += DimStyle.Render(fmt.Sprintf(" (%d)", group.Count()))
	}
	if group.AllDone {
		header += " " + SuccessStyle.Render("✓")
	} else {
		header += " " + a.loadingSpinner.View()
	}
	b.WriteString(header + "\n")

	for i, step := range group.Steps {
		branch := "├─"
		if i == len(group.Steps)-1 {
			branch = "└─"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", DimStyle.Render(branch), renderStepLine(step)))
	}

	return b.String()
}

// renderStepLine builds one step's detail line: the argument hint, then
// the result summary once the tool finished, or a running label until then.
func renderStepLine(step model.ToolStep) string {
	var parts []string
	if step.Detail != "" {
		parts = append(parts, step.Detail)
	}

	if step.Done() {
		summary := step.Summary
		if strings.HasPrefix(summary, "שגיאה: ") {
			parts = append(parts, ErrorStyle.Render(summary))
		} else if summary != "" {
			parts = append(parts, summary)
		}
	} else {
		parts = append(parts, DimStyle.Render(model.ToolStatusLabel(step.ToolName)))
	}

	return strings.Join(parts, DimStyle.Render(" · "))
}
