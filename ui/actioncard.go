package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pinkas/model"
)

// renderActionCard draws one proposed action awaiting review. The card is
// a bordered box: heading, the extracted record fields, confidence,
// reasoning, and a state footer that follows the card's lifecycle.
func (a *AppView) renderActionCard(card *model.ActionCard, focused bool) string {
	action := card.Action

	cardWidth := a.width - 8
	if cardWidth > 62 {
		cardWidth = 62
	}
	if cardWidth < 30 {
		cardWidth = 30
	}

	var lines []string
	lines = append(lines, TitleStyle.Render("📋 "+action.TypeTitle()))
	lines = append(lines, "")
	lines = append(lines, actionFieldLines(action)...)
	lines = append(lines, "")
	lines = append(lines, confidenceLine(action))
	if action.Reasoning != "" {
		lines = append(lines, DimStyle.Render("נימוק: "+action.Reasoning))
	}
	if action.NeedsSupplier() {
		lines = append(lines, "")
		name := action.SupplierLookup.SupplierName
		lines = append(lines, SelectedStyle.Render("⚠ הספק \""+name+"\" אינו קיים במערכת"))
		lines = append(lines, DimStyle.Render("יש ליצור את הספק באתר לפני אישור הפעולה"))
	}
	lines = append(lines, "")
	lines = append(lines, a.cardStateLine(card, focused))

	borderColor := dimColor
	if focused {
		borderColor = warningColor
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(cardWidth)

	return box.Render(strings.Join(lines, "\n"))
}

// cardStateLine renders the card's lifecycle footer.
func (a *AppView) cardStateLine(card *model.ActionCard, focused bool) string {
	switch card.State {
	case model.CardConfirming:
		return a.loadingSpinner.View() + " שולח..."

	case model.CardSuccess:
		return SuccessStyle.Render("✓ " + card.Message)

	case model.CardError:
		line := ErrorStyle.Render("✗ " + card.Message)
		if focused {
			line += "\n" + FormatFooter("y", "ניסיון חוזר", "n", "דחייה", "Tab", "חזרה")
		} else {
			line += "\n" + DimStyle.Render("Tab לניסיון חוזר")
		}
		return line

	case model.CardRejected:
		return DimStyle.Render("✗ " + card.Message)

	default: // CardPending
		if card.Action.NeedsSupplier() {
			if focused {
				return FormatFooter("n", "דחייה", "Tab", "חזרה")
			}
			return DimStyle.Render("Tab לדחיית הפעולה")
		}
		if focused {
			return FormatFooter("y", "אישור", "n", "דחייה", "Tab", "חזרה")
		}
		return DimStyle.Render("Tab לאישור או דחייה")
	}
}

func confidenceLine(action *model.ProposedAction) string {
	percent := fmt.Sprintf("%.0f%%", action.Confidence*100)
	switch action.Tier() {
	case model.ConfidenceHigh:
		return "רמת ביטחון: " + TierHighStyle.Render("גבוהה ("+percent+")")
	case model.ConfidenceMedium:
		return "רמת ביטחון: " + TierMediumStyle.Render("בינונית ("+percent+")")
	default:
		return "רמת ביטחון: " + TierLowStyle.Render("נמוכה ("+percent+")")
	}
}

// actionFieldLines lists the record fields of the one data block matching
// the action type. Empty and zero fields are skipped.
func actionFieldLines(action *model.ProposedAction) []string {
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, DimStyle.Render(label+": ")+value)
		}
	}
	amount := func(v float64) string {
		if v == 0 {
			return ""
		}
		return model.FormatShekels(v)
	}

	switch action.ActionType {
	case model.ActionExpense:
		if e := action.Expense; e != nil {
			add("ספק", e.SupplierName)
			add("תאריך חשבונית", e.InvoiceDate)
			add("מספר חשבונית", e.InvoiceNumber)
			add("לפני מע\"מ", amount(e.Subtotal))
			add("מע\"מ", amount(e.VATAmount))
			add("סה\"כ", amount(e.Total))
			add("סוג הוצאה", e.ExpenseType)
			add("הערות", e.Notes)
		}
	case model.ActionPayment:
		if p := action.Payment; p != nil {
			add("ספק", p.SupplierName)
			add("תאריך תשלום", p.PaymentDate)
			add("סכום", amount(p.Amount))
			add("אמצעי תשלום", p.Method)
			add("מספר צ'ק", p.CheckNumber)
			add("אסמכתא", p.ReferenceNumber)
			add("הערות", p.Notes)
		}
	case model.ActionDailyEntry:
		if d := action.DailyEntry; d != nil {
			add("תאריך", d.EntryDate)
			add("פדיון קופה", amount(d.RegisterTotal))
			add("עלות עבודה", amount(d.LaborCost))
			if d.LaborHours > 0 {
				add("שעות עבודה", model.FormatAmount(d.LaborHours))
			}
			add("הנחות", amount(d.Discounts))
			add("הערות", d.Notes)
		}
	}

	if len(lines) == 0 {
		lines = append(lines, DimStyle.Render("אין פרטים נוספים"))
	}
	return lines
}
