package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pinkas/model"
)

const (
	chartBarChar   = "█"
	chartMaxRows   = 12
	chartMinBarLen = 1
)

// renderChart draws an embedded chart as horizontal bars. Every chart type
// the backend emits (bar, line, pie) degrades to the same bar layout: a
// terminal has no business interpolating lines, and the values matter more
// than the shape.
func renderChart(spec *model.ChartSpec, width int) string {
	if spec == nil || len(spec.Data) == 0 || len(spec.DataKeys) == 0 {
		return ""
	}

	rows := spec.Data
	if len(rows) > chartMaxRows {
		rows = rows[len(rows)-chartMaxRows:]
	}

	// First pass: labels and the value range for scaling.
	labels := make([]string, len(rows))
	labelWidth := 0
	maxValue := 0.0
	for i, row := range rows {
		labels[i] = chartLabel(row[spec.XAxisKey])
		if w := runewidth.StringWidth(labels[i]); w > labelWidth {
			labelWidth = w
		}
		for _, key := range spec.DataKeys {
			if v, ok := model.Numeric(row[key.Key]); ok && v > maxValue {
				maxValue = v
			}
		}
	}
	if maxValue <= 0 {
		return ""
	}

	// Bar area: label, space, bar, space, value.
	valueWidth := len(model.FormatAmount(maxValue)) + 2
	barArea := width - labelWidth - valueWidth - 6
	if barArea < 10 {
		barArea = 10
	}

	var b strings.Builder
	if spec.Title != "" {
		b.WriteString(TitleStyle.Render(spec.Title))
		b.WriteString("\n")
	}

	multiSeries := len(spec.DataKeys) > 1
	for i, row := range rows {
		for si, key := range spec.DataKeys {
			v, ok := model.Numeric(row[key.Key])
			if !ok || v < 0 {
				continue
			}

			barLen := int(float64(barArea) * v / maxValue)
			if v > 0 && barLen < chartMinBarLen {
				barLen = chartMinBarLen
			}

			// The label prints once per row; continuation series indent.
			label := labels[i]
			if si > 0 {
				label = ""
			}
			pad := labelWidth - runewidth.StringWidth(label)
			if pad < 0 {
				pad = 0
			}

			bar := seriesStyle(key, si).Render(strings.Repeat(chartBarChar, barLen))
			b.WriteString(fmt.Sprintf("  %s%s %s %s\n",
				label,
				strings.Repeat(" ", pad),
				bar,
				DimStyle.Render(model.FormatAmount(v)),
			))
		}
	}

	if multiSeries {
		var legend []string
		for si, key := range spec.DataKeys {
			name := key.Label
			if name == "" {
				name = key.Key
			}
			legend = append(legend, seriesStyle(key, si).Render(chartBarChar)+" "+name)
		}
		b.WriteString("  " + DimStyle.Render(strings.Join(legend, "   ")) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// seriesStyle picks the bar color: the chart's own hex color when present,
// otherwise a rotating palette.
func seriesStyle(key model.DataKey, idx int) lipgloss.Style {
	if strings.HasPrefix(key.Color, "#") {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(key.Color))
	}
	palette := []lipgloss.Color{accentColor, successColor, warningColor, highlightColor}
	return lipgloss.NewStyle().Foreground(palette[idx%len(palette)])
}

func chartLabel(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		if f, ok := model.Numeric(v); ok {
			return model.FormatAmount(f)
		}
		return fmt.Sprintf("%v", x)
	}
}
