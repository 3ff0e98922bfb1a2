package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pinkas/api"
	"pinkas/config"
	"pinkas/storage"
	"pinkas/transcribe"
	"pinkas/ui"
)

const Version = "v0.1.0"

func main() {
	// Validate environment variables first
	if config.HasAnyEnvVar() && !config.HasAllEnvVars() {
		missingVar := config.GetMissingEnvVar()
		errorMsg := fmt.Sprintf("חסר משתנה סביבה: %s\n\n"+
			"בשימוש במשתני סביבה יש להגדיר את שלושתם:\n"+
			"  • PINKAS_API_URL\n"+
			"  • PINKAS_BUSINESS_ID\n"+
			"  • PINKAS_DATA_DIR\n\n"+
			"הגדירו את המשתנה החסר והפעילו את פנקס מחדש.",
			missingVar)

		runExitModal(ui.NewErrorModal("שגיאת הגדרות", errorMsg))
		os.Exit(0)
	}

	isFirstRun := !config.SystemConfigExists()

	// Skip welcome wizard if all env vars are set
	if config.HasAllEnvVars() {
		isFirstRun = false
	}

	if isFirstRun {
		welcomeModel := ui.NewWelcomeModel(checkDashboardConnection)
		p := tea.NewProgram(
			welcomeModel,
			tea.WithAltScreen(),
		)

		finalModel, err := p.Run()
		if err != nil {
			fmt.Printf("Error running welcome wizard: %v\n", err)
			os.Exit(1)
		}

		if wm, ok := finalModel.(ui.WelcomeModel); ok && !wm.IsComplete() {
			os.Exit(0)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	creds, err := loadCredentials(cfg)
	if err != nil {
		fmt.Printf("Failed to load credentials: %v\n", err)
		os.Exit(1)
	}
	if creds == nil {
		// Passphrase prompt cancelled
		os.Exit(0)
	}

	token := creds.APIToken()
	if token == "" {
		errorMsg := "לא נמצא טוקן גישה ללוח הבקרה.\n\n" +
			"הגדירו את משתנה הסביבה PINKAS_API_TOKEN,\n" +
			"או מחקו את קובץ settings.toml כדי להריץ\n" +
			"את אשף ההגדרה מחדש."

		runExitModal(ui.NewErrorModal("חסר טוקן גישה", errorMsg))
		os.Exit(0)
	}

	client, err := api.NewClient(cfg.APIBaseURL, token)
	if err != nil {
		fmt.Printf("Failed to create API client: %v\n", err)
		os.Exit(1)
	}

	transcriber, err := transcribe.New(cfg, creds, client)
	if err != nil {
		fmt.Printf("Failed to initialize transcriber: %v\n", err)
		os.Exit(1)
	}

	// Check if another pinkas instance is already running (the audit
	// log database allows a single writer)
	isLocked, runningPID, err := storage.CheckInstanceLock(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to check instance lock: %v\n", err)
		os.Exit(1)
	}
	if isLocked {
		lockedModal := ui.NewInstanceLockedModal(runningPID)
		p := tea.NewProgram(
			lockedModal,
			tea.WithAltScreen(),
		)

		finalModel, err := p.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		lm, ok := finalModel.(ui.InstanceLockedModal)
		if !ok || !lm.ForceDelete() {
			os.Exit(0)
		}
		if err := storage.UnlockInstance(cfg.DataDir()); err != nil {
			fmt.Printf("Failed to remove stale lock: %v\n", err)
			os.Exit(1)
		}
	}

	// Lock this instance
	if err := storage.LockInstance(cfg.DataDir()); err != nil {
		fmt.Printf("Failed to lock pinkas instance: %v\n", err)
		os.Exit(1)
	}

	// Ensure cleanup on exit
	defer func() {
		if err := storage.UnlockInstance(cfg.DataDir()); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to unlock pinkas instance: %v", err)
		}
	}()

	auditLog, err := storage.OpenAuditLog(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to open audit log: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := auditLog.Close(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to close audit log: %v", err)
		}
	}()

	p := tea.NewProgram(
		ui.NewAppView(cfg, client, transcriber, auditLog, Version),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running pinkas: %v\n", err)
		os.Exit(1)
	}
}

// runExitModal shows a standalone modal and returns when it quits.
func runExitModal(modal tea.Model) {
	p := tea.NewProgram(
		modal,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// checkDashboardConnection probes the dashboard with the entered URL
// and token. The welcome wizard runs it before saving anything.
func checkDashboardConnection(baseURL, token string) error {
	client, err := api.NewClient(baseURL, token)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// A missing session is fine; auth and transport failures are not
	_, err = client.LatestSession(ctx, "")
	return err
}

// loadCredentials opens the credential store, prompting for the SSH key
// passphrase when the configured key needs one. Returns (nil, nil) when
// the user cancels the prompt.
func loadCredentials(cfg *config.Config) (*config.CredentialStore, error) {
	creds := config.NewCredentialStore(config.SecurityMethod(cfg.SecurityMethod), cfg.SSHKeyPath)

	err := creds.Load(cfg.DataDir())
	if err == nil {
		return creds, nil
	}
	if !strings.Contains(err.Error(), "passphrase required") {
		return nil, err
	}

	// An env token works without unlocking the store
	if os.Getenv("PINKAS_API_TOKEN") != "" {
		return creds, nil
	}

	keyPath := config.ExpandPath(cfg.SSHKeyPath)
	if keyPath == "" {
		// The store discovers a key the same way when no path is set
		if keys, err := config.FindSSHKeys(); err == nil && len(keys) > 0 {
			keyPath = keys[0]
		}
	}

	errMsg := ""
	for {
		modal := ui.NewPassphraseModal(keyPath, errMsg)
		p := tea.NewProgram(
			modal,
			tea.WithAltScreen(),
		)

		finalModel, err := p.Run()
		if err != nil {
			return nil, err
		}

		pm, ok := finalModel.(ui.PassphraseModal)
		if !ok || pm.IsCancelled() {
			return nil, nil
		}

		if err := ui.LoadCredentialsWithPassphrase(creds, cfg.DataDir(), pm.GetPassphrase()); err != nil {
			errMsg = ui.IncorrectPassphraseError()
			continue
		}
		return creds, nil
	}
}
