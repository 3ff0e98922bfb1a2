package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearPinkasEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PINKAS_API_URL", "PINKAS_BUSINESS_ID", "PINKAS_DATA_DIR", "PINKAS_DEBUG"} {
		t.Setenv(key, "")
	}
}

func TestEnvVarChecks(t *testing.T) {
	t.Run("nothing set", func(t *testing.T) {
		clearPinkasEnv(t)
		if HasAnyEnvVar() || HasAllEnvVars() {
			t.Error("empty environment reported as configured")
		}
		if got := GetMissingEnvVar(); got != "PINKAS_API_URL" {
			t.Errorf("missing var: got %q", got)
		}
	})

	t.Run("partial set", func(t *testing.T) {
		clearPinkasEnv(t)
		t.Setenv("PINKAS_API_URL", "http://localhost:3000")
		if !HasAnyEnvVar() {
			t.Error("partial environment not detected")
		}
		if HasAllEnvVars() {
			t.Error("partial environment reported complete")
		}
		if got := GetMissingEnvVar(); got != "PINKAS_BUSINESS_ID" {
			t.Errorf("missing var: got %q", got)
		}
	})

	t.Run("all set", func(t *testing.T) {
		clearPinkasEnv(t)
		t.Setenv("PINKAS_API_URL", "http://localhost:3000")
		t.Setenv("PINKAS_BUSINESS_ID", "biz_001")
		t.Setenv("PINKAS_DATA_DIR", "/tmp/pinkas")
		if !HasAllEnvVars() {
			t.Error("complete environment not detected")
		}
		if got := GetMissingEnvVar(); got != "" {
			t.Errorf("missing var: got %q, want none", got)
		}
	})
}

func TestCheckDebug(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"yes", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Setenv("PINKAS_DEBUG", tt.value)
		if got := CheckDebug(); got != tt.expected {
			t.Errorf("CheckDebug() with %q = %v, want %v", tt.value, got, tt.expected)
		}
	}
}

func TestBusinessName(t *testing.T) {
	cfg := &Config{
		Businesses: []Business{
			{ID: "biz_001", Name: "מאפיית הצפון"},
			{ID: "biz_002", Name: "קפה דרומי"},
		},
	}

	if got := cfg.BusinessName("biz_002"); got != "קפה דרומי" {
		t.Errorf("BusinessName(biz_002) = %q", got)
	}
	if got := cfg.BusinessName("biz_999"); got != "" {
		t.Errorf("BusinessName(biz_999) = %q, want empty", got)
	}
}

func TestLoadFromEnvironmentOnly(t *testing.T) {
	home := t.TempDir()
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("HOME", home)
	clearPinkasEnv(t)
	t.Setenv("PINKAS_API_URL", "https://dash.example.com")
	t.Setenv("PINKAS_BUSINESS_ID", "biz_007")
	t.Setenv("PINKAS_DATA_DIR", dataDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.APIBaseURL != "https://dash.example.com" {
		t.Errorf("api url: got %q", cfg.APIBaseURL)
	}
	if cfg.DefaultBusiness != "biz_007" {
		t.Errorf("business: got %q", cfg.DefaultBusiness)
	}
	if cfg.DataDirectory != dataDir {
		t.Errorf("data dir: got %q", cfg.DataDirectory)
	}

	// A complete environment runs file-less: no settings.toml appears.
	if FileExists(GetSettingsFilePath()) {
		t.Error("settings file created despite a complete environment")
	}

	info, err := os.Stat(dataDir)
	if err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
	if perms := info.Mode().Perm(); perms != 0700 {
		t.Errorf("data dir permissions: got %o, want 0700", perms)
	}
}

func TestLoadCreatesDefaultFiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearPinkasEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.APIBaseURL != "http://localhost:3000" {
		t.Errorf("api url: got %q", cfg.APIBaseURL)
	}
	if cfg.SecurityMethod != "plaintext" {
		t.Errorf("security method: got %q", cfg.SecurityMethod)
	}
	if cfg.Transcriber != "backend" {
		t.Errorf("transcriber: got %q", cfg.Transcriber)
	}

	if !FileExists(GetSettingsFilePath()) {
		t.Error("settings template not written")
	}
	if !FileExists(filepath.Join(cfg.DataDir(), "config.toml")) {
		t.Error("user config template not written")
	}
}

func TestLoadAppliesUserConfig(t *testing.T) {
	home := t.TempDir()
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("HOME", home)
	clearPinkasEnv(t)

	if err := SaveSystemConfig(&SystemConfig{DataDirectory: dataDir}); err != nil {
		t.Fatalf("write system config: %v", err)
	}
	userCfg := &UserConfig{
		API:             APIConfig{BaseURL: "https://books.example.com"},
		Security:        SecurityConfig{Method: "ssh_key", SSHKeyPath: "~/.ssh/id_ed25519"},
		DefaultBusiness: "biz_003",
		AdminMode:       true,
		PageContext:     "reports",
		Transcriber:     "openai",
		Businesses:      []Business{{ID: "biz_003", Name: "מסעדת הים"}},
	}
	if err := SaveUserConfig(userCfg, dataDir); err != nil {
		t.Fatalf("write user config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.APIBaseURL != "https://books.example.com" {
		t.Errorf("api url: got %q", cfg.APIBaseURL)
	}
	if cfg.SecurityMethod != "ssh_key" || cfg.SSHKeyPath != "~/.ssh/id_ed25519" {
		t.Errorf("security: %q %q", cfg.SecurityMethod, cfg.SSHKeyPath)
	}
	if cfg.DefaultBusiness != "biz_003" || !cfg.AdminMode || cfg.PageContext != "reports" {
		t.Errorf("user fields: %+v", cfg)
	}
	if cfg.Transcriber != "openai" {
		t.Errorf("transcriber: got %q", cfg.Transcriber)
	}
	if cfg.BusinessName("biz_003") != "מסעדת הים" {
		t.Errorf("roster: %+v", cfg.Businesses)
	}
}

func TestEnvOverridesUserConfig(t *testing.T) {
	home := t.TempDir()
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("HOME", home)
	clearPinkasEnv(t)

	if err := SaveSystemConfig(&SystemConfig{DataDirectory: dataDir}); err != nil {
		t.Fatal(err)
	}
	userCfg := DefaultUserConfig()
	userCfg.API.BaseURL = "https://books.example.com"
	userCfg.DefaultBusiness = "biz_003"
	if err := SaveUserConfig(userCfg, dataDir); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PINKAS_API_URL", "http://localhost:4000")
	t.Setenv("PINKAS_BUSINESS_ID", "biz_override")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:4000" {
		t.Errorf("api url: got %q, want the environment value", cfg.APIBaseURL)
	}
	if cfg.DefaultBusiness != "biz_override" {
		t.Errorf("business: got %q, want the environment value", cfg.DefaultBusiness)
	}
}

func TestApplyUserConfigKeepsDefaults(t *testing.T) {
	cfg := &Config{
		APIBaseURL:     "http://localhost:3000",
		SecurityMethod: "plaintext",
		Transcriber:    "backend",
	}
	cfg.applyUserConfig(&UserConfig{AdminMode: true})

	if cfg.APIBaseURL != "http://localhost:3000" {
		t.Errorf("empty base URL clobbered the default: %q", cfg.APIBaseURL)
	}
	if cfg.SecurityMethod != "plaintext" || cfg.Transcriber != "backend" {
		t.Errorf("defaults clobbered: %q %q", cfg.SecurityMethod, cfg.Transcriber)
	}
	if !cfg.AdminMode {
		t.Error("admin mode not applied")
	}
}
