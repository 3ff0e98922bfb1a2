package ui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pinkas/config"
)

type wizardStep int

const (
	stepWelcome wizardStep = iota
	stepServerURL
	stepAPIToken
	stepSecurity
	stepPassphrase
	stepDataDirectory
	stepComplete
)

const wizardBanner = `█▀█ █ █▄ █ █▄▀ ▄▀█ █▀
█▀▀ █ █ ▀█ █ █ █▀█ ▄█`

var wizardFeatures = []string{
	"• שיחה עם עוזר הנהלת החשבונות מהמסוף",
	"• אישור ודחייה של פעולות מוצעות",
	"• חיפוש בהיסטוריית השיחות",
	"• תמלול הודעות קוליות לטקסט",
}

// WelcomeModel is the first-run setup wizard. It collects the server
// URL, an API token and the credential storage method, then writes the
// system config, the user config and the credential store.
type WelcomeModel struct {
	step           wizardStep
	selectedButton int
	customFlow     bool

	serverURL      string
	apiToken       string
	securityMethod config.SecurityMethod
	sshKeyPath     string
	passphrase     string
	dataDirectory  string

	urlInput   textinput.Model
	tokenInput textinput.Model
	passInput  textinput.Model
	dirInput   textinput.Model

	// Probes the dashboard with the entered URL and token. Injected so
	// this package stays free of HTTP client wiring.
	checkConnection func(baseURL, token string) error

	width  int
	height int

	err     string
	loading bool
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	featureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	buttonStyle = lipgloss.NewStyle().
			Width(24).
			Align(lipgloss.Center).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8"))

	selectedButtonStyle = lipgloss.NewStyle().
				Width(24).
				Align(lipgloss.Center).
				Padding(0, 2).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("10")).
				Foreground(lipgloss.Color("10")).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
)

func NewWelcomeModel(checkConnection func(baseURL, token string) error) WelcomeModel {
	urlInput := textinput.New()
	urlInput.Placeholder = "http://localhost:3000"
	urlInput.Width = 50
	urlInput.CharLimit = 200

	dirInput := textinput.New()
	dirInput.Placeholder = "~/.local/share/pinkas"
	dirInput.Width = 50
	dirInput.CharLimit = 200

	return WelcomeModel{
		step:            stepWelcome,
		selectedButton:  0,
		serverURL:       "http://localhost:3000",
		securityMethod:  config.SecurityPlainText,
		dataDirectory:   "~/.local/share/pinkas",
		urlInput:        urlInput,
		tokenInput:      NewPassphraseInput("טוקן גישה"),
		passInput:       NewPassphraseInput("סיסמת המפתח"),
		dirInput:        dirInput,
		checkConnection: checkConnection,
	}
}

func (m WelcomeModel) Init() tea.Cmd {
	return nil
}

type connectionCheckedMsg struct {
	err error
}

func verifyConnection(check func(baseURL, token string) error, baseURL, token string) tea.Cmd {
	return func() tea.Msg {
		if check == nil {
			return connectionCheckedMsg{}
		}
		return connectionCheckedMsg{err: check(baseURL, token)}
	}
}

func (m WelcomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.step {
		case stepWelcome:
			return m.updateWelcomeScreen(msg)
		case stepServerURL:
			return m.updateServerURLScreen(msg)
		case stepAPIToken:
			return m.updateAPITokenScreen(msg)
		case stepSecurity:
			return m.updateSecurityScreen(msg)
		case stepPassphrase:
			return m.updatePassphraseScreen(msg)
		case stepDataDirectory:
			return m.updateDataDirectoryScreen(msg)
		}

	case connectionCheckedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = fmt.Sprintf("החיבור לשרת נכשל: %v", msg.err)
			return m, nil
		}
		m.apiToken = m.tokenInput.Value()
		m.err = ""
		if m.customFlow {
			m.step = stepSecurity
			m.selectedButton = 0
			return m, nil
		}
		return m.finishSetup()
	}

	return m, nil
}

func (m WelcomeModel) updateWelcomeScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		m.selectedButton = 0
		return m, nil

	case "down", "j":
		m.selectedButton = 1
		return m, nil

	case "enter":
		if m.selectedButton == 0 {
			// Defaults still need a token; everything else is preset.
			m.customFlow = false
			m.step = stepAPIToken
			m.tokenInput.Focus()
			return m, textinput.Blink
		}
		m.customFlow = true
		m.step = stepServerURL
		m.urlInput.SetValue(m.serverURL)
		m.urlInput.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m WelcomeModel) updateServerURLScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// No bare quit key here: addresses and tokens may contain any letter.
	switch msg.String() {
	case "esc":
		m.step = stepWelcome
		m.err = ""
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.urlInput.Value())
		if value == "" {
			m.err = "יש להזין כתובת שרת"
			return m, nil
		}
		parsed, err := url.Parse(value)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			m.err = "כתובת לא תקינה, נדרשת כתובת http או https"
			return m, nil
		}
		m.serverURL = value
		m.err = ""
		m.step = stepAPIToken
		m.tokenInput.Focus()
		return m, textinput.Blink

	case "alt+u":
		m.urlInput.SetValue("")
		return m, nil
	}

	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m WelcomeModel) updateAPITokenScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.loading {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		if m.customFlow {
			m.step = stepServerURL
		} else {
			m.step = stepWelcome
		}
		m.err = ""
		return m, nil

	case "enter":
		if m.tokenInput.Value() == "" {
			m.err = "יש להזין טוקן גישה"
			return m, nil
		}
		m.loading = true
		m.err = ""
		return m, verifyConnection(m.checkConnection, m.serverURL, m.tokenInput.Value())

	case "alt+u":
		m.tokenInput.SetValue("")
		return m, nil
	}

	m.tokenInput, cmd = m.tokenInput.Update(msg)
	return m, cmd
}

func (m WelcomeModel) updateSecurityScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		m.step = stepAPIToken
		m.err = ""
		return m, nil

	case "up", "k":
		m.selectedButton = 0
		return m, nil

	case "down", "j":
		m.selectedButton = 1
		return m, nil

	case "enter":
		if m.selectedButton == 0 {
			m.securityMethod = config.SecurityPlainText
			m.sshKeyPath = ""
			m.err = ""
			m.step = stepDataDirectory
			m.dirInput.SetValue(m.dataDirectory)
			m.dirInput.Focus()
			return m, textinput.Blink
		}

		keys, err := config.FindSSHKeys()
		if err != nil || len(keys) == 0 {
			m.err = "לא נמצא מפתח SSH (id_ed25519 או id_rsa)"
			return m, nil
		}
		m.securityMethod = config.SecuritySSHKey
		m.sshKeyPath = keys[0]
		m.err = ""

		encrypted, err := config.IsSSHKeyEncrypted(m.sshKeyPath)
		if err != nil {
			m.err = fmt.Sprintf("קריאת המפתח נכשלה: %v", err)
			return m, nil
		}
		if encrypted {
			m.step = stepPassphrase
			m.passInput.Focus()
			return m, textinput.Blink
		}
		m.step = stepDataDirectory
		m.dirInput.SetValue(m.dataDirectory)
		m.dirInput.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m WelcomeModel) updatePassphraseScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		m.step = stepSecurity
		m.err = ""
		return m, nil

	case "enter":
		if m.passInput.Value() == "" {
			m.err = emptyPassphraseError
			return m, nil
		}
		if _, err := config.LoadSSHPrivateKeyWithPassphrase(m.sshKeyPath, m.passInput.Value()); err != nil {
			m.err = incorrectPassphraseError
			return m, nil
		}
		m.passphrase = m.passInput.Value()
		m.err = ""
		m.step = stepDataDirectory
		m.dirInput.SetValue(m.dataDirectory)
		m.dirInput.Focus()
		return m, textinput.Blink
	}

	m.passInput, cmd = m.passInput.Update(msg)
	return m, cmd
}

func (m WelcomeModel) updateDataDirectoryScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		m.step = stepSecurity
		m.err = ""
		return m, nil

	case "enter":
		if m.dirInput.Value() == "" {
			m.err = "יש להזין תיקיית נתונים"
			return m, nil
		}
		m.dataDirectory = m.dirInput.Value()
		return m.finishSetup()

	case "alt+u":
		m.dirInput.SetValue("")
		return m, nil
	}

	m.dirInput, cmd = m.dirInput.Update(msg)
	return m, cmd
}

// finishSetup persists everything the wizard collected and quits.
func (m WelcomeModel) finishSetup() (tea.Model, tea.Cmd) {
	systemCfg := &config.SystemConfig{
		DataDirectory: m.dataDirectory,
	}
	if err := config.SaveSystemConfig(systemCfg); err != nil {
		m.err = fmt.Sprintf("שמירת הגדרות המערכת נכשלה: %v", err)
		return m, nil
	}

	dataDir := config.ExpandPath(m.dataDirectory)
	userCfg := config.DefaultUserConfig()
	userCfg.API.BaseURL = m.serverURL
	userCfg.Security.Method = string(m.securityMethod)
	userCfg.Security.SSHKeyPath = m.sshKeyPath
	if err := config.SaveUserConfig(userCfg, dataDir); err != nil {
		m.err = fmt.Sprintf("שמירת הגדרות המשתמש נכשלה: %v", err)
		return m, nil
	}

	store := config.NewCredentialStore(m.securityMethod, m.sshKeyPath)
	store.SetPassphrase(m.passphrase)
	if err := store.Set(config.CredentialAPIToken, m.apiToken); err != nil {
		m.err = fmt.Sprintf("שמירת הטוקן נכשלה: %v", err)
		return m, nil
	}
	if err := store.Save(dataDir); err != nil {
		m.err = fmt.Sprintf("שמירת הטוקן נכשלה: %v", err)
		return m, nil
	}

	m.step = stepComplete
	return m, tea.Quit
}

func (m WelcomeModel) View() string {
	switch m.step {
	case stepWelcome:
		return m.viewWelcomeScreen()
	case stepServerURL:
		return m.viewServerURLScreen()
	case stepAPIToken:
		return m.viewAPITokenScreen()
	case stepSecurity:
		return m.viewSecurityScreen()
	case stepPassphrase:
		return m.viewPassphraseScreen()
	case stepDataDirectory:
		return m.viewDataDirectoryScreen()
	}
	return ""
}

func (m WelcomeModel) viewWelcomeScreen() string {
	var sb strings.Builder

	for _, line := range strings.Split(wizardBanner, "\n") {
		sb.WriteString(titleStyle.Render(line))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	for _, feature := range wizardFeatures {
		sb.WriteString(featureStyle.Render(feature))
		sb.WriteString("\n")
	}

	sb.WriteString("\n\n")
	sb.WriteString("נראה שזו ההפעלה הראשונה של פנקס.\n")
	sb.WriteString("בואו נגדיר את החיבור ללוח הבקרה.")
	sb.WriteString("\n\n\n")

	var button1, button2 string

	if m.selectedButton == 0 {
		button1 = selectedButtonStyle.Render("ברירות מחדל")
		button2 = buttonStyle.Render("הגדרה מותאמת")
	} else {
		button1 = buttonStyle.Render("ברירות מחדל")
		button2 = selectedButtonStyle.Render("הגדרה מותאמת")
	}

	buttons := lipgloss.JoinVertical(lipgloss.Left, button1, button2)
	sb.WriteString(buttons)
	sb.WriteString("\n\n")

	hint := "↑/↓ או j/k מעבר • Enter בחירה • q יציאה"
	sb.WriteString(featureStyle.Render(hint))
	sb.WriteString("\n")

	if m.err != "" {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.err))
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m WelcomeModel) viewServerURLScreen() string {
	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(centerText(titleStyle.Render("כתובת השרת"), m.width))
	sb.WriteString("\n\n\n")

	sb.WriteString(centerText(featureStyle.Render("הזינו את כתובת שרת לוח הבקרה:"), m.width))
	sb.WriteString("\n\n")

	sb.WriteString(centerText(inputStyle.Render(m.urlInput.View()), m.width))
	sb.WriteString("\n\n\n")

	sb.WriteString(centerText(featureStyle.Render("Alt+U ניקוי • Enter המשך • Esc חזרה"), m.width))

	if m.err != "" {
		sb.WriteString("\n\n")
		sb.WriteString(centerText(errorStyle.Render(m.err), m.width))
	}

	return sb.String()
}

func (m WelcomeModel) viewAPITokenScreen() string {
	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(centerText(titleStyle.Render("טוקן גישה"), m.width))
	sb.WriteString("\n\n\n")

	sb.WriteString(centerText(featureStyle.Render("הדביקו טוקן גישה אישי מעמוד ההגדרות של לוח הבקרה:"), m.width))
	sb.WriteString("\n\n")

	sb.WriteString(centerText(inputStyle.Render(m.tokenInput.View()), m.width))
	sb.WriteString("\n\n\n")

	if m.loading {
		sb.WriteString(centerText(featureStyle.Render("⏳ בודק חיבור לשרת..."), m.width))
	} else {
		sb.WriteString(centerText(featureStyle.Render("Alt+U ניקוי • Enter המשך • Esc חזרה"), m.width))
	}

	if m.err != "" {
		sb.WriteString("\n\n")
		sb.WriteString(centerText(errorStyle.Render(m.err), m.width))
	}

	return sb.String()
}

func (m WelcomeModel) viewSecurityScreen() string {
	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(centerText(titleStyle.Render("אבטחת הרשאות"), m.width))
	sb.WriteString("\n\n\n")

	sb.WriteString(centerText(featureStyle.Render("כיצד לשמור את טוקן הגישה במחשב זה?"), m.width))
	sb.WriteString("\n")
	sb.WriteString(centerText(featureStyle.Render("ללא הצפנה: קובץ קריא בתיקיית הנתונים."), m.width))
	sb.WriteString("\n")
	sb.WriteString(centerText(featureStyle.Render("מפתח SSH: הצפנה במפתח שנגזר מחתימת SSH."), m.width))
	sb.WriteString("\n\n")

	var button1, button2 string

	if m.selectedButton == 0 {
		button1 = selectedButtonStyle.Render("ללא הצפנה")
		button2 = buttonStyle.Render("מפתח SSH")
	} else {
		button1 = buttonStyle.Render("ללא הצפנה")
		button2 = selectedButtonStyle.Render("מפתח SSH")
	}

	sb.WriteString(centerText(button1, m.width))
	sb.WriteString("\n")
	sb.WriteString(centerText(button2, m.width))
	sb.WriteString("\n\n")

	sb.WriteString(centerText(featureStyle.Render("↑/↓ או j/k מעבר • Enter בחירה • Esc חזרה • q יציאה"), m.width))

	if m.err != "" {
		sb.WriteString("\n\n")
		sb.WriteString(centerText(errorStyle.Render(m.err), m.width))
	}

	return sb.String()
}

func (m WelcomeModel) viewPassphraseScreen() string {
	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(centerText(titleStyle.Render("סיסמת מפתח SSH"), m.width))
	sb.WriteString("\n\n\n")

	sb.WriteString(centerText(featureStyle.Render("המפתח שנבחר מוצפן בסיסמה:"), m.width))
	sb.WriteString("\n")
	sb.WriteString(centerText(featureStyle.Render(m.sshKeyPath), m.width))
	sb.WriteString("\n\n")

	sb.WriteString(centerText(inputStyle.Render(m.passInput.View()), m.width))
	sb.WriteString("\n\n\n")

	sb.WriteString(centerText(featureStyle.Render("Enter המשך • Esc חזרה"), m.width))

	if m.err != "" {
		sb.WriteString("\n\n")
		sb.WriteString(centerText(errorStyle.Render(m.err), m.width))
	}

	return sb.String()
}

func (m WelcomeModel) viewDataDirectoryScreen() string {
	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(centerText(titleStyle.Render("תיקיית נתונים"), m.width))
	sb.WriteString("\n\n\n")

	sb.WriteString(centerText(featureStyle.Render("היכן לשמור הגדרות, הרשאות ואת יומן הפעולות?"), m.width))
	sb.WriteString("\n\n")

	sb.WriteString(centerText(inputStyle.Render(m.dirInput.View()), m.width))
	sb.WriteString("\n\n\n")

	sb.WriteString(centerText(featureStyle.Render("Alt+U ניקוי • Enter סיום • Esc חזרה"), m.width))

	if m.err != "" {
		sb.WriteString("\n\n")
		sb.WriteString(centerText(errorStyle.Render(m.err), m.width))
	}

	return sb.String()
}

func centerText(text string, width int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 {
		var sb strings.Builder
		for i, line := range lines {
			sb.WriteString(centerText(line, width))
			if i < len(lines)-1 {
				sb.WriteString("\n")
			}
		}
		return sb.String()
	}

	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}

	padding := (width - textWidth) / 2
	return strings.Repeat(" ", padding) + text
}

func (m WelcomeModel) IsComplete() bool {
	return m.step == stepComplete
}
