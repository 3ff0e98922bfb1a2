package model

import "encoding/json"

// Action types the model may propose. Each projects a fixed, disjoint
// field set into the execution payload.
const (
	ActionExpense    = "expense"
	ActionPayment    = "payment"
	ActionDailyEntry = "daily_entry"
)

// ProposedAction is a structured, human-reviewable suggestion to create a
// business record, emitted once by the model inside a single assistant
// message and never mutated after creation.
type ProposedAction struct {
	ToolCallID     string          `json:"-"`
	ActionType     string          `json:"actionType"`
	BusinessID     string          `json:"businessId"`
	Confidence     float64         `json:"confidence"`
	Reasoning      string          `json:"reasoning"`
	SupplierLookup *SupplierLookup `json:"supplierLookup,omitempty"`
	Expense        *ExpenseData    `json:"expenseData,omitempty"`
	Payment        *PaymentData    `json:"paymentData,omitempty"`
	DailyEntry     *DailyEntryData `json:"dailyEntryData,omitempty"`
}

// SupplierLookup reports whether the referenced supplier exists in the
// target business. NeedsCreation is a hard gate on confirmation.
type SupplierLookup struct {
	SupplierName  string `json:"supplierName"`
	SupplierID    string `json:"supplierId,omitempty"`
	NeedsCreation bool   `json:"needsCreation"`
}

type ExpenseData struct {
	SupplierName  string  `json:"supplier_name"`
	InvoiceDate   string  `json:"invoice_date"`
	InvoiceNumber string  `json:"invoice_number"`
	Subtotal      float64 `json:"subtotal"`
	VATAmount     float64 `json:"vat_amount"`
	Total         float64 `json:"total_amount"`
	ExpenseType   string  `json:"expense_type"`
	Notes         string  `json:"notes"`
}

type PaymentData struct {
	SupplierName    string  `json:"supplier_name"`
	PaymentDate     string  `json:"payment_date"`
	Amount          float64 `json:"total_amount"`
	Method          string  `json:"payment_method"`
	CheckNumber     string  `json:"check_number"`
	ReferenceNumber string  `json:"reference_number"`
	Notes           string  `json:"notes"`
}

type DailyEntryData struct {
	EntryDate     string  `json:"entry_date"`
	RegisterTotal float64 `json:"register_total"`
	LaborCost     float64 `json:"labor_cost"`
	LaborHours    float64 `json:"labor_hours"`
	Discounts     float64 `json:"discounts"`
	Notes         string  `json:"notes"`
}

// DecodeProposedAction reads a propose-action tool output. Missing fields
// stay zero, unknown fields are ignored; nil on malformed payloads.
func DecodeProposedAction(output map[string]any) *ProposedAction {
	raw, err := json.Marshal(output)
	if err != nil {
		return nil
	}
	var action ProposedAction
	if err := json.Unmarshal(raw, &action); err != nil {
		return nil
	}
	return &action
}

// TypeTitle returns the card heading for the action type.
func (a *ProposedAction) TypeTitle() string {
	return ActionTypeTitle(a.ActionType)
}

// ActionTypeTitle maps an action type to its Hebrew heading. Unknown types
// fall through unchanged so new server-side actions still display.
func ActionTypeTitle(actionType string) string {
	switch actionType {
	case ActionExpense:
		return "הוספת הוצאה"
	case ActionPayment:
		return "רישום תשלום"
	case ActionDailyEntry:
		return "רישום יומי"
	default:
		return actionType
	}
}

// NeedsSupplier reports the supplier-creation hard gate.
func (a *ProposedAction) NeedsSupplier() bool {
	return a.SupplierLookup != nil && a.SupplierLookup.NeedsCreation
}

// ConfidenceTier buckets the model's confidence for display. Display only:
// the tier never gates or alters submission.
type ConfidenceTier int

const (
	ConfidenceHigh   ConfidenceTier = iota // >= 0.9
	ConfidenceMedium                       // >= 0.7
	ConfidenceLow
)

func (a *ProposedAction) Tier() ConfidenceTier {
	switch {
	case a.Confidence >= 0.9:
		return ConfidenceHigh
	case a.Confidence >= 0.7:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// BuildExecutePayload projects the action into the execution request body:
// actionType, businessId, and the fields of the one data block matching the
// action type.
func (a *ProposedAction) BuildExecutePayload() map[string]any {
	payload := map[string]any{
		"actionType": a.ActionType,
		"businessId": a.BusinessID,
	}
	switch a.ActionType {
	case ActionExpense:
		mergeFields(payload, a.Expense)
	case ActionPayment:
		mergeFields(payload, a.Payment)
	case ActionDailyEntry:
		mergeFields(payload, a.DailyEntry)
	}
	return payload
}

func mergeFields(payload map[string]any, data any) {
	if data == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}
	for k, v := range fields {
		payload[k] = v
	}
}

// CardState is the per-card confirmation state machine.
type CardState int

const (
	CardPending    CardState = iota
	CardConfirming           // submission in flight
	CardSuccess
	CardError
	CardRejected
)

// ActionCard is one proposed action under human review. Every card is an
// independent state machine: a conversation may hold many cards and each
// keeps its own terminal state.
type ActionCard struct {
	Action  *ProposedAction
	State   CardState
	Message string // server confirmation or error text, or the local reject notice
}

func NewActionCard(action *ProposedAction) *ActionCard {
	return &ActionCard{Action: action, State: CardPending}
}

// Terminal reports whether the card accepts no further interaction.
// CardError is not terminal: the user may retry confirm or reject.
func (c *ActionCard) Terminal() bool {
	return c.State == CardSuccess || c.State == CardRejected
}

// BeginConfirm moves the card into the in-flight state. Returns false
// without changing state when the card is terminal, a submission is already
// in flight, or the supplier-creation gate is closed: the caller must not
// issue a request in those cases.
func (c *ActionCard) BeginConfirm() bool {
	if c.Terminal() || c.State == CardConfirming {
		return false
	}
	if c.Action.NeedsSupplier() {
		return false
	}
	c.State = CardConfirming
	return true
}

// Complete records the submission outcome. Ignored unless a submission is
// actually in flight, so a late response can never overwrite a terminal
// state.
func (c *ActionCard) Complete(success bool, message string) {
	if c.State != CardConfirming {
		return
	}
	if success {
		c.State = CardSuccess
		if message == "" {
			message = "הפעולה בוצעה בהצלחה"
		}
	} else {
		c.State = CardError
		if message == "" {
			message = "שגיאה בביצוע הפעולה"
		}
	}
	c.Message = message
}

// Reject dismisses the card locally. No network call is made. Returns
// false when the card is terminal or a submission is in flight.
func (c *ActionCard) Reject() bool {
	if c.Terminal() || c.State == CardConfirming {
		return false
	}
	c.State = CardRejected
	c.Message = "הפעולה נדחתה"
	return true
}
