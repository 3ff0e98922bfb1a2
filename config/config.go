package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type APIConfig struct {
	BaseURL string `toml:"base_url"`
}

type SecurityConfig struct {
	Method     string `toml:"method"`
	SSHKeyPath string `toml:"ssh_key_path,omitempty"`
}

// Business is one entry of the business roster the user may chat about.
type Business struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

type UserConfig struct {
	API             APIConfig      `toml:"api"`
	Security        SecurityConfig `toml:"security"`
	DefaultBusiness string         `toml:"default_business,omitempty"`
	AdminMode       bool           `toml:"admin_mode"`
	PageContext     string         `toml:"page_context,omitempty"`
	Transcriber     string         `toml:"transcriber,omitempty"`
	Businesses      []Business     `toml:"businesses"`
}

type Config struct {
	DataDirectory   string
	APIBaseURL      string
	SecurityMethod  string
	SSHKeyPath      string
	DefaultBusiness string
	AdminMode       bool
	PageContext     string
	Transcriber     string
	Businesses      []Business
}

var Debug = false
var DebugLog *logrus.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// BusinessName resolves a business id against the configured roster.
// Returns "" for unknown ids; callers fall back to showing the raw id.
func (c *Config) BusinessName(id string) string {
	for _, b := range c.Businesses {
		if b.ID == id {
			return b.Name
		}
	}
	return ""
}

func (c *Config) applyEnvOverrides() {
	if apiURL := os.Getenv("PINKAS_API_URL"); apiURL != "" {
		c.APIBaseURL = apiURL
	}
	if businessID := os.Getenv("PINKAS_BUSINESS_ID"); businessID != "" {
		c.DefaultBusiness = businessID
	}
	if dataDir := os.Getenv("PINKAS_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("PINKAS_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens the structured debug log when PINKAS_DEBUG is set.
// DebugLog stays nil otherwise; call sites nil-check before logging.
func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: debug output can include request payloads
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	l := logrus.New()
	l.SetOutput(f)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	DebugLog = l
	DebugLog.Printf("=== Debug logging started (PINKAS_DEBUG=%s) ===", os.Getenv("PINKAS_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func HasAllEnvVars() bool {
	return os.Getenv("PINKAS_API_URL") != "" &&
		os.Getenv("PINKAS_BUSINESS_ID") != "" &&
		os.Getenv("PINKAS_DATA_DIR") != ""
}

func HasAnyEnvVar() bool {
	return os.Getenv("PINKAS_API_URL") != "" ||
		os.Getenv("PINKAS_BUSINESS_ID") != "" ||
		os.Getenv("PINKAS_DATA_DIR") != ""
}

func GetMissingEnvVar() string {
	if os.Getenv("PINKAS_API_URL") == "" {
		return "PINKAS_API_URL"
	}
	if os.Getenv("PINKAS_BUSINESS_ID") == "" {
		return "PINKAS_BUSINESS_ID"
	}
	if os.Getenv("PINKAS_DATA_DIR") == "" {
		return "PINKAS_DATA_DIR"
	}
	return ""
}

func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory:  "~/.local/share/pinkas",
		APIBaseURL:     "http://localhost:3000",
		SecurityMethod: "plaintext",
		Transcriber:    "backend",
	}

	settingsPath := GetSettingsFilePath()
	settingsExist := FileExists(settingsPath)

	if settingsExist || !HasAllEnvVars() {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		dataDir := cfg.DataDir()
		userCfg, err := LoadUserConfig(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		cfg.applyUserConfig(userCfg)
	}

	// Env vars win over file config; when all three are set they are also
	// enough to run without any config files at all.
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyUserConfig(userCfg *UserConfig) {
	if userCfg.API.BaseURL != "" {
		c.APIBaseURL = userCfg.API.BaseURL
	}
	if userCfg.Security.Method != "" {
		c.SecurityMethod = userCfg.Security.Method
	}
	c.SSHKeyPath = userCfg.Security.SSHKeyPath
	c.DefaultBusiness = userCfg.DefaultBusiness
	c.AdminMode = userCfg.AdminMode
	c.PageContext = userCfg.PageContext
	if userCfg.Transcriber != "" {
		c.Transcriber = userCfg.Transcriber
	}
	c.Businesses = userCfg.Businesses
}
