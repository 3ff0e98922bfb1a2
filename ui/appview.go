package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pinkas/config"
	appmodel "pinkas/model"
	"pinkas/storage"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	// Loading spinner (bubbles/spinner), shared by the thinking line,
	// confirming cards and the modal loading states
	loadingSpinner spinner.Model

	// Help modal
	showHelp bool

	// Focused action card key; empty means the input has focus
	cardFocus string

	// History search overlay (query and results live on the data model)
	searchInput textinput.Model

	// Business selector
	showBusinessSelector bool
	selectedBusinessIdx  int
	businessFilterMode   bool
	businessFilterInput  textinput.Model
	filteredBusinessList []config.Business

	// Audit log view
	showAudit    bool
	auditLoading bool
	auditEntries []appmodel.AuditEntryView

	// Clear-chat confirmation
	confirmClear ConfirmationState

	// Voice note picker
	voicePicker VoicePickerState

	// Search jump highlight
	highlightedMessageIdx int
	highlightFlashCount   int

	// History restored before the first WindowSizeMsg waits for a width
	needsInitialRender bool

	// Transient status-bar notice
	notice    string
	noticeSeq int
}

func NewAppView(cfg *config.Config, backend appmodel.Backend, transcriber appmodel.Transcriber, auditLog *storage.AuditLog, version string) AppView {
	dataModel := appmodel.NewModel(cfg, backend, auditLog, version)
	dataModel.Transcriber = transcriber

	ta := textarea.New()
	ta.Placeholder = "מה תרצו לדעת או לרשום?"
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Custom KeyMap: Alt+Enter for newline, Enter alone does nothing (handled separately)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	// Set dynamic prompt: "> " for first line, "| " for subsequent lines
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	searchInput := textinput.New()
	searchInput.Prompt = "חיפוש: "
	searchInput.CharLimit = 100

	businessFilterInput := textinput.New()
	businessFilterInput.Prompt = "סינון: "
	businessFilterInput.CharLimit = 64

	return AppView{
		dataModel:             dataModel,
		textarea:              ta,
		viewport:              vp,
		loadingSpinner:        sp,
		searchInput:           searchInput,
		businessFilterInput:   businessFilterInput,
		voicePicker:           NewVoicePicker(),
		highlightedMessageIdx: -1,
	}
}

func (a AppView) Init() tea.Cmd {
	// Markdown rendering waits for the first WindowSizeMsg; the history
	// restore runs meanwhile.
	return tea.Batch(
		textarea.Blink,
		a.dataModel.LoadHistory(),
		a.loadingSpinner.Tick,
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "טוען..."
	}

	// Modal rendering order (top to bottom layers):
	// 1. Help (always on top)
	// 2. Clear-chat confirmation
	// 3. Voice note picker
	// 4. Business selector
	// 5. Audit log
	// 6. History search

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	if a.confirmClear.Active {
		return RenderConfirmationModal(a.confirmClear, a.width, a.height)
	}

	if a.voicePicker.Active {
		return RenderVoicePicker(a.voicePicker, a.loadingSpinner.View(), a.width, a.height)
	}

	if a.showBusinessSelector {
		return renderBusinessSelector(
			a.dataModel.Config.Businesses,
			a.selectedBusinessIdx,
			a.dataModel.BusinessID,
			a.businessFilterMode,
			a.businessFilterInput,
			a.filteredBusinessList,
			a.width,
			a.height,
		)
	}

	if a.showAudit {
		return a.renderAuditView()
	}

	if a.dataModel.Search.Active {
		return a.renderSearch()
	}

	title := a.renderTitleBar()

	// Separator with bottom margin for header (empty line forces spacing)
	separator := ""

	viewportView := a.viewport.View()
	inputView := a.textarea.View()
	statusBar := a.renderStatusBar()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		separator,
		viewportView,
		inputView,
		statusBar,
	)
}

// renderTitleBar builds the top line: app name, active business, admin
// badge and conversation state.
func (a AppView) renderTitleBar() string {
	appText := AssistantStyle.Render("פנקס")

	business := a.dataModel.BusinessName
	if business == "" {
		business = a.dataModel.BusinessID
	}
	if business == "" {
		if a.dataModel.AdminMode {
			business = "מנהל מערכת"
		} else {
			business = "ללא עסק"
		}
	}
	businessText := UserStyle.Render(fmt.Sprintf(" - %s", business))

	adminText := ""
	if a.dataModel.AdminMode && a.dataModel.BusinessName != "" {
		adminText = SelectedStyle.Render(" [מנהל]")
	}

	stateText := ""
	switch {
	case a.dataModel.LoadingHistory:
		stateText = DimStyle.Render(" | טוען היסטוריה...")
	case a.dataModel.Status.InFlight():
		stateText = DimStyle.Render(" | משיב...")
	case a.dataModel.SessionID != "":
		stateText = DimStyle.Render(" | שיחה פעילה")
	}

	return appText + businessText + adminText + stateText
}

// renderStatusBar picks the bottom hint line for the current focus: a
// transient notice wins, then card-review hints, then streaming hints,
// then the standard shortcuts.
func (a AppView) renderStatusBar() string {
	if a.notice != "" {
		return SuccessStyle.Render(a.notice)
	}

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)

	if a.cardFocus != "" {
		bar := fmt.Sprintf("y %s  n %s  Tab %s  Esc %s",
			descStyle.Render("אישור"),
			descStyle.Render("דחייה"),
			descStyle.Render("הכרטיס הבא"),
			descStyle.Render("חזרה לקלט"),
		)
		return StatusStyle.Render(bar)
	}

	if a.dataModel.Status.InFlight() {
		bar := fmt.Sprintf("Esc %s  Alt+Q %s",
			descStyle.Render("עצירת התשובה"),
			descStyle.Render("יציאה"),
		)
		return StatusStyle.Render(bar)
	}

	bar := fmt.Sprintf("Alt+Q %s  Alt+B %s  Alt+F %s  Alt+L %s  Alt+H %s  Alt+Enter %s  Enter %s",
		descStyle.Render("יציאה"),
		descStyle.Render("עסק"),
		descStyle.Render("חיפוש"),
		descStyle.Render("יומן"),
		descStyle.Render("עזרה"),
		descStyle.Render("שורה חדשה"),
		descStyle.Render("שליחה"),
	)
	return StatusStyle.Render(bar)
}

func (a *AppView) closeAllModals() {
	a.showHelp = false
	a.showBusinessSelector = false
	a.showAudit = false
	a.voicePicker.Reset()
	a.confirmClear = ConfirmationState{}
	a.businessFilterMode = false

	if a.dataModel.Search.Active {
		a.dataModel.CloseSearch()
		a.searchInput.Blur()
		a.searchInput.SetValue("")
	}
}
