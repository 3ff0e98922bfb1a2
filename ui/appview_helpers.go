package ui

import (
	"fmt"
	"strings"

	"pinkas/model"
)

// cardRef ties a reviewable action card to the message that proposed it.
type cardRef struct {
	Key       string
	MessageID string
	Action    *model.ProposedAction
	Card      *model.ActionCard
}

// actionableCards lists the cards that currently accept interaction, in
// conversation order. Terminal and in-flight cards are skipped: there is
// nothing left to press on them.
func (a *AppView) actionableCards() []cardRef {
	var refs []cardRef
	for i := range a.dataModel.Messages {
		msg := &a.dataModel.Messages[i]
		action, ok := model.ProposedActionOf(msg)
		if !ok {
			continue
		}
		card := a.dataModel.CardFor(msg.ID, action)
		if card.Terminal() || card.State == model.CardConfirming {
			continue
		}
		refs = append(refs, cardRef{
			Key:       msg.ID + ":" + action.ToolCallID,
			MessageID: msg.ID,
			Action:    action,
			Card:      card,
		})
	}
	return refs
}

// focusedCardRef resolves the currently focused card, or nil when focus is
// on the input (or the focused card stopped being actionable).
func (a *AppView) focusedCardRef() *cardRef {
	if a.cardFocus == "" {
		return nil
	}
	for _, ref := range a.actionableCards() {
		if ref.Key == a.cardFocus {
			r := ref
			return &r
		}
	}
	return nil
}

// cycleCardFocus advances focus: input -> first actionable card -> next ->
// ... -> back to input. Returns true when focus landed on a card.
func (a *AppView) cycleCardFocus() bool {
	refs := a.actionableCards()
	if len(refs) == 0 {
		a.cardFocus = ""
		return false
	}

	if a.cardFocus == "" {
		a.cardFocus = refs[0].Key
		return true
	}
	for i, ref := range refs {
		if ref.Key == a.cardFocus {
			if i+1 < len(refs) {
				a.cardFocus = refs[i+1].Key
				return true
			}
			a.cardFocus = ""
			return false
		}
	}
	// Focused card disappeared (completed elsewhere); restart at the top.
	a.cardFocus = refs[0].Key
	return true
}

// spinnerActive reports whether anything on screen is animated by the
// shared loading spinner right now.
func (a *AppView) spinnerActive() bool {
	return a.dataModel.Status.InFlight() ||
		a.dataModel.LoadingHistory ||
		a.dataModel.Search.Loading ||
		a.voicePicker.Transcribing ||
		a.auditLoading ||
		a.hasConfirmingCard()
}

// hasConfirmingCard reports whether any action card is mid-submission.
func (a *AppView) hasConfirmingCard() bool {
	for i := range a.dataModel.Messages {
		msg := &a.dataModel.Messages[i]
		action, ok := model.ProposedActionOf(msg)
		if !ok {
			continue
		}
		if a.dataModel.CardFor(msg.ID, action).State == model.CardConfirming {
			return true
		}
	}
	return false
}

// lastAnswerText returns the newest assistant answer's display text.
func (a *AppView) lastAnswerText() string {
	for i := len(a.dataModel.Messages) - 1; i >= 0; i-- {
		msg := &a.dataModel.Messages[i]
		if msg.Role != model.RoleAssistant {
			continue
		}
		if text := model.DisplayText(msg); text != "" {
			return text
		}
	}
	return ""
}

// conversationTranscript flattens the conversation to plain text for the
// clipboard. Tool activity and cards stay out: the transcript is the words.
func (a *AppView) conversationTranscript() string {
	var b strings.Builder
	for i := range a.dataModel.Messages {
		msg := &a.dataModel.Messages[i]
		if msg.Role != model.RoleUser && msg.Role != model.RoleAssistant {
			continue
		}
		text := model.DisplayText(msg)
		if text == "" {
			continue
		}
		role := "אני"
		if msg.Role == model.RoleAssistant {
			role = "העוזר"
		}
		b.WriteString(fmt.Sprintf("[%s] %s:\n%s\n\n",
			msg.Timestamp.Format("15:04"),
			role,
			text))
	}
	return strings.TrimRight(b.String(), "\n")
}

// messageIndexByID finds a loaded message by id, for search jumps.
func (a *AppView) messageIndexByID(id string) int {
	if id == "" {
		return -1
	}
	for i := range a.dataModel.Messages {
		if a.dataModel.Messages[i].ID == id {
			return i
		}
	}
	return -1
}
