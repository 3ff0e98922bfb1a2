package ui

import (
	"fmt"
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"pinkas/config"
	"pinkas/model"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if len(a.dataModel.Messages) == 0 && !a.dataModel.Status.InFlight() {
		a.viewport.SetContent(a.emptyStateView())
		return
	}

	var content strings.Builder

	for i := range a.dataModel.Messages {
		content.WriteString(a.renderMessage(i))
	}

	if status := a.dataModel.ThinkingStatus(); status != "" {
		content.WriteString(fmt.Sprintf("%s %s\n\n", a.loadingSpinner.View(), DimStyle.Render(status)))
	}

	if a.dataModel.Status == model.StatusError && a.dataModel.LastError != "" {
		content.WriteString(ErrorStyle.Render("✗ "+a.dataModel.LastError) + "\n\n")
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderMessage produces one message's block, trailing separator
// included. An assistant container with nothing visible yet renders as
// nothing; the thinking line stands in for it.
func (a *AppView) renderMessage(i int) string {
	msg := &a.dataModel.Messages[i]

	highlightPrefix := ""
	if i == a.highlightedMessageIdx && a.highlightFlashCount%2 == 1 {
		highlightPrefix = HighlightStyle.Render(">>> ")
	}

	timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

	switch msg.Role {
	case model.RoleUser:
		role := UserStyle.Render("אני")
		return formatUserMessage(highlightPrefix, timestamp, role, model.DisplayText(msg))

	case model.RoleAssistant:
		role := AssistantStyle.Render("העוזר")
		body := a.renderAssistantBody(msg, i == len(a.dataModel.Messages)-1)
		if body == "" {
			return ""
		}
		return fmt.Sprintf("%s%s %s\n%s\n\n", highlightPrefix, timestamp, role, body)

	default:
		return fmt.Sprintf("%s %s\n\n", timestamp, DimStyle.Render(model.DisplayText(msg)))
	}
}

// scrollToMessage centers the viewport on a message, as far as the
// scroll range allows. The offset comes from re-rendering the messages
// above it, the same text the viewport holds.
func (a *AppView) scrollToMessage(idx int) {
	var before strings.Builder
	for i := 0; i < idx && i < len(a.dataModel.Messages); i++ {
		before.WriteString(a.renderMessage(i))
	}

	offset := strings.Count(before.String(), "\n") - a.viewport.Height/2
	if maxOffset := a.viewport.TotalLineCount() - a.viewport.Height; offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	a.viewport.SetYOffset(offset)
}

// renderAssistantBody composes one assistant message: tool activity first,
// then the answer text, then the embedded chart and the action card.
func (a *AppView) renderAssistantBody(msg *model.Message, isLast bool) string {
	var sections []string

	if steps := a.renderToolSteps(msg); steps != "" {
		sections = append(sections, steps)
	}

	text := model.DisplayText(msg)
	streaming := isLast && a.dataModel.Status == model.StatusStreaming
	if text != "" {
		body := msg.Rendered
		if body == "" || streaming {
			// Markdown is rendered async after the stream closes; until
			// then the raw text streams in with a cursor block.
			body = text
			if streaming {
				body += "▋"
			}
		}
		sections = append(sections, body)
	}

	if chart, ok := model.ChartData(msg); ok {
		if rendered := renderChart(chart, a.viewport.Width-4); rendered != "" {
			sections = append(sections, rendered)
		}
	}

	if action, ok := model.ProposedActionOf(msg); ok {
		card := a.dataModel.CardFor(msg.ID, action)
		focused := a.cardFocus == msg.ID+":"+action.ToolCallID
		sections = append(sections, a.renderActionCard(card, focused))
	}

	return strings.Join(sections, "\n\n")
}

func (a *AppView) emptyStateView() string {
	business := a.dataModel.BusinessName
	if business == "" && a.dataModel.AdminMode {
		business = "מנהל מערכת"
	}
	lines := []string{
		"",
		TitleStyle.Render("שלום! אפשר לשאול אותי על הנתונים של העסק."),
		"",
		DimStyle.Render("לדוגמה: \"כמה הכנסות היו החודש?\" או \"תוסיף הוצאה של 400 שקל לספק חשמל\""),
	}
	if business != "" {
		lines = append(lines, "", DimStyle.Render("עסק פעיל: ")+UserStyle.Render(business))
	}
	return strings.Join(lines, "\n")
}

func formatUserMessage(highlightPrefix, timestamp, role, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	lines := strings.Split(content, "\n")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s%s %s %s\n", highlightPrefix, bar, timestamp, role))

	for _, line := range lines {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}

	result.WriteString("\n")

	return result.String()
}

func postProcessMarkdown(rendered string, width int) string {
	// 1. Fix inline code: Blue background → Red text (glamour style)
	rendered = fixInlineCode(rendered)

	// 2. Color plain URLs red (autolink disabled keeps URLs plain)
	rendered = fixMarkdownLinks(rendered)

	// 3. Frame code blocks with horizontal lines
	rendered = frameCodeBlocks(rendered, width)

	return rendered
}

func preprocessLinks(content string) string {
	// Strip markdown link syntax [text](url) → just url
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func fixInlineCode(s string) string {
	// Replace: \x1b[44;3m...text...\x1b[0m (Blue BG + Italic)
	// With:    \x1b[31m...text...\x1b[0m (Red text)
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func fixMarkdownLinks(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")

	for i, line := range lines {
		// Skip code blocks (they have ┃ prefix from the renderer)
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}

	return strings.Join(lines, "\n")
}

func frameCodeBlocks(s string, width int) string {
	lines := strings.Split(s, "\n")
	var result []string
	var codeBlockLines []string
	inCodeBlock := false

	darkGray := "\x1b[90m"
	reset := "\x1b[0m"

	for _, line := range lines {
		if strings.Contains(line, "┃") {
			if !inCodeBlock {
				inCodeBlock = true
				codeBlockLines = []string{}
				result = append(result, "")
				border := darkGray + strings.Repeat("━", max(width-4, 8)) + reset
				result = append(result, border)
				result = append(result, "")
			}

			codeBlockLines = append(codeBlockLines, stripCodeBlockPrefix(line))
		} else {
			if inCodeBlock {
				result = append(result, codeBlockLines...)
				result = append(result, "")
				border := darkGray + strings.Repeat("━", max(width-4, 8)) + reset
				result = append(result, border)
				result = append(result, "")

				codeBlockLines = nil
				inCodeBlock = false
			}
			result = append(result, line)
		}
	}

	if inCodeBlock && len(codeBlockLines) > 0 {
		result = append(result, codeBlockLines...)
		result = append(result, "")
		border := darkGray + strings.Repeat("━", max(width-4, 8)) + reset
		result = append(result, border)
		result = append(result, "")
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, "┃")
	if idx >= 0 {
		after := idx + len("┃")
		if after < len(line) && line[after] == ' ' {
			after++
		}
		if after < len(line) {
			return line[after:]
		}
		return ""
	}
	return line
}

// renderMarkdownAsync renders a message's display text off the update
// loop. The chart fence is already stripped by DisplayText, so the chart
// JSON never reaches the markdown renderer.
func (a AppView) renderMarkdownAsync(messageIndex int, content string) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[render] markdown for message %d, %d chars", messageIndex, len(content))
		}

		content = preprocessLinks(content)

		// Autolink stays disabled so terminal emulators handle URL
		// detection and clicking themselves.
		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width-4, 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		processed := postProcessMarkdown(string(rendered), width)

		return markdownRenderedMsg{
			MessageIndex: messageIndex,
			Rendered:     strings.TrimRight(processed, "\n"),
		}
	}
}
