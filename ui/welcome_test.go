package ui

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/crypto/ssh"

	"pinkas/config"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
)

func wizardPress(t *testing.T, m WelcomeModel, msg tea.Msg) (WelcomeModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	wm, ok := next.(WelcomeModel)
	if !ok {
		t.Fatalf("Update returned %T, want WelcomeModel", next)
	}
	return wm, cmd
}

func wizardHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PINKAS_API_TOKEN", "")
	return home
}

// writeWizardSSHKey plants an ed25519 key under $HOME/.ssh so the key scan
// finds it.
func writeWizardSSHKey(t *testing.T, home, passphrase string) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "", []byte(passphrase))
	}
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	sshDir := filepath.Join(home, ".ssh")
	if err := os.MkdirAll(sshDir, 0700); err != nil {
		t.Fatalf("ssh dir: %v", err)
	}
	keyPath := filepath.Join(sshDir, "id_ed25519")
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return keyPath
}

func TestWizardDefaultsFlow(t *testing.T) {
	home := wizardHome(t)

	var gotURL, gotToken string
	m := NewWelcomeModel(func(baseURL, token string) error {
		gotURL = baseURL
		gotToken = token
		return nil
	})

	m, _ = wizardPress(t, m, keyEnter)
	if m.step != stepAPIToken {
		t.Fatalf("step after defaults: got %d, want %d", m.step, stepAPIToken)
	}

	m, _ = wizardPress(t, m, keyEnter)
	if m.err != "יש להזין טוקן גישה" {
		t.Errorf("empty token error: got %q", m.err)
	}

	m.tokenInput.SetValue("tok_wizard")
	var cmd tea.Cmd
	m, cmd = wizardPress(t, m, keyEnter)
	if !m.loading {
		t.Error("not loading while the connection check runs")
	}
	if cmd == nil {
		t.Fatal("no connection check command")
	}

	checked := cmd()
	if _, ok := checked.(connectionCheckedMsg); !ok {
		t.Fatalf("check produced %T", checked)
	}
	if gotURL != "http://localhost:3000" || gotToken != "tok_wizard" {
		t.Errorf("check called with (%q, %q)", gotURL, gotToken)
	}

	m, cmd = wizardPress(t, m, checked)
	if !m.IsComplete() {
		t.Fatalf("wizard not complete, step %d, err %q", m.step, m.err)
	}
	if cmd == nil {
		t.Error("complete wizard did not quit")
	}

	if !config.FileExists(filepath.Join(home, ".config", "pinkas", "settings.toml")) {
		t.Error("system config not written")
	}

	dataDir := filepath.Join(home, ".local", "share", "pinkas")
	if !config.FileExists(filepath.Join(dataDir, "config.toml")) {
		t.Error("user config not written")
	}

	store := config.NewCredentialStore(config.SecurityPlainText, "")
	if err := store.Load(dataDir); err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	if got := store.APIToken(); got != "tok_wizard" {
		t.Errorf("stored token: got %q", got)
	}
}

func TestWizardCustomFlow(t *testing.T) {
	home := wizardHome(t)

	m := NewWelcomeModel(func(string, string) error { return nil })

	m, _ = wizardPress(t, m, keyDown)
	m, _ = wizardPress(t, m, keyEnter)
	if m.step != stepServerURL {
		t.Fatalf("step: got %d, want %d", m.step, stepServerURL)
	}
	if m.urlInput.Value() != "http://localhost:3000" {
		t.Errorf("url prefill: got %q", m.urlInput.Value())
	}

	m.urlInput.SetValue("localhost:3000")
	m, _ = wizardPress(t, m, keyEnter)
	if m.err == "" || m.step != stepServerURL {
		t.Error("scheme-less address accepted")
	}

	m.urlInput.SetValue("https://pinkas.example.com")
	m, _ = wizardPress(t, m, keyEnter)
	if m.step != stepAPIToken || m.err != "" {
		t.Fatalf("step %d, err %q after valid address", m.step, m.err)
	}

	m.tokenInput.SetValue("tok_custom")
	var cmd tea.Cmd
	m, cmd = wizardPress(t, m, keyEnter)
	m, _ = wizardPress(t, m, cmd())
	if m.step != stepSecurity {
		t.Fatalf("custom flow skipped the security screen, step %d", m.step)
	}

	// Plain text storage, then the data directory.
	m, _ = wizardPress(t, m, keyEnter)
	if m.step != stepDataDirectory {
		t.Fatalf("step: got %d, want %d", m.step, stepDataDirectory)
	}

	dataDir := filepath.Join(home, "pinkas-data")
	m.dirInput.SetValue(dataDir)
	m, _ = wizardPress(t, m, keyEnter)
	if !m.IsComplete() {
		t.Fatalf("wizard not complete, err %q", m.err)
	}

	userCfg, err := config.LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("load user config: %v", err)
	}
	if userCfg.API.BaseURL != "https://pinkas.example.com" {
		t.Errorf("persisted base url: got %q", userCfg.API.BaseURL)
	}
}

func TestWizardConnectionFailure(t *testing.T) {
	wizardHome(t)

	m := NewWelcomeModel(func(string, string) error {
		return errors.New("connection refused")
	})

	m, _ = wizardPress(t, m, keyEnter)
	m.tokenInput.SetValue("tok_bad")
	m, cmd := wizardPress(t, m, keyEnter)
	m, _ = wizardPress(t, m, cmd())

	if m.loading {
		t.Error("still loading after the check returned")
	}
	if m.step != stepAPIToken {
		t.Errorf("step: got %d, want to stay on %d", m.step, stepAPIToken)
	}
	if !strings.Contains(m.err, "החיבור לשרת נכשל") {
		t.Errorf("error: got %q", m.err)
	}
}

func TestWizardSecurityWithoutSSHKey(t *testing.T) {
	wizardHome(t)

	m := NewWelcomeModel(func(string, string) error { return nil })
	m.step = stepSecurity

	m, _ = wizardPress(t, m, keyDown)
	m, _ = wizardPress(t, m, keyEnter)
	if m.step != stepSecurity {
		t.Errorf("advanced without a key, step %d", m.step)
	}
	if !strings.Contains(m.err, "לא נמצא מפתח SSH") {
		t.Errorf("error: got %q", m.err)
	}
}

func TestWizardEncryptedKeyAsksPassphrase(t *testing.T) {
	home := wizardHome(t)
	keyPath := writeWizardSSHKey(t, home, "סודי")

	m := NewWelcomeModel(func(string, string) error { return nil })
	m.step = stepSecurity

	m, _ = wizardPress(t, m, keyDown)
	m, _ = wizardPress(t, m, keyEnter)
	if m.step != stepPassphrase {
		t.Fatalf("step: got %d, want %d", m.step, stepPassphrase)
	}
	if m.sshKeyPath != keyPath {
		t.Errorf("key path: got %q, want %q", m.sshKeyPath, keyPath)
	}

	m, _ = wizardPress(t, m, keyEnter)
	if m.err != emptyPassphraseError {
		t.Errorf("empty passphrase error: got %q", m.err)
	}

	m.passInput.SetValue("לא זה")
	m, _ = wizardPress(t, m, keyEnter)
	if m.err != incorrectPassphraseError {
		t.Errorf("wrong passphrase error: got %q", m.err)
	}

	m.passInput.SetValue("סודי")
	m, _ = wizardPress(t, m, keyEnter)
	if m.step != stepDataDirectory || m.err != "" {
		t.Errorf("step %d, err %q after correct passphrase", m.step, m.err)
	}
	if m.passphrase != "סודי" {
		t.Errorf("passphrase not kept")
	}
}

func TestWizardPlainKeySkipsPassphrase(t *testing.T) {
	home := wizardHome(t)
	writeWizardSSHKey(t, home, "")

	m := NewWelcomeModel(func(string, string) error { return nil })
	m.step = stepSecurity

	m, _ = wizardPress(t, m, keyDown)
	m, _ = wizardPress(t, m, keyEnter)
	if m.step != stepDataDirectory {
		t.Errorf("step: got %d, want %d", m.step, stepDataDirectory)
	}
	if m.securityMethod != config.SecuritySSHKey {
		t.Errorf("method: got %q", m.securityMethod)
	}
}

func TestWizardEscNavigation(t *testing.T) {
	wizardHome(t)

	m := NewWelcomeModel(nil)

	// Defaults flow: token screen backs out to the welcome screen.
	m, _ = wizardPress(t, m, keyEnter)
	m, _ = wizardPress(t, m, keyEsc)
	if m.step != stepWelcome {
		t.Errorf("step after esc: got %d, want %d", m.step, stepWelcome)
	}

	// Custom flow: token screen backs out to the URL screen instead.
	m, _ = wizardPress(t, m, keyDown)
	m, _ = wizardPress(t, m, keyEnter)
	m.urlInput.SetValue("http://srv:3000")
	m, _ = wizardPress(t, m, keyEnter)
	m, _ = wizardPress(t, m, keyEsc)
	if m.step != stepServerURL {
		t.Errorf("step after esc in custom flow: got %d, want %d", m.step, stepServerURL)
	}

	m, _ = wizardPress(t, m, keyEsc)
	if m.step != stepWelcome {
		t.Errorf("step after second esc: got %d, want %d", m.step, stepWelcome)
	}
}

func TestWizardNilCheckSkipsProbe(t *testing.T) {
	home := wizardHome(t)

	m := NewWelcomeModel(nil)
	m, _ = wizardPress(t, m, keyEnter)
	m.tokenInput.SetValue("tok_nil")
	m, cmd := wizardPress(t, m, keyEnter)

	msg := cmd()
	checked, ok := msg.(connectionCheckedMsg)
	if !ok {
		t.Fatalf("check produced %T", msg)
	}
	if checked.err != nil {
		t.Errorf("nil check reported error: %v", checked.err)
	}

	m, _ = wizardPress(t, m, checked)
	if !m.IsComplete() {
		t.Fatalf("wizard not complete, err %q", m.err)
	}
	if !config.FileExists(filepath.Join(home, ".local", "share", "pinkas", "credentials.toml")) {
		t.Error("credentials not written")
	}
}
