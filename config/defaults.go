package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/pinkas",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		API: APIConfig{
			BaseURL: "http://localhost:3000",
		},
		Security: SecurityConfig{
			Method: "plaintext",
		},
		Transcriber: "backend",
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Pinkas System Configuration
# Location: ~/.config/pinkas/settings.toml
# This file uses TOML format: https://toml.io

# Directory where user config, credentials and the audit log are stored
data_directory = "~/.local/share/pinkas"
`
}

func GenerateUserConfigTemplate() string {
	return `# Pinkas User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[api]
# Dashboard backend URL
base_url = "http://localhost:3000"

[security]
# Credential storage: "plaintext" (credentials.toml) or "ssh_key"
# (credentials.enc encrypted with a key derived from your SSH key)
method = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"

# Business to open on startup (optional; admins may leave it empty)
default_business = ""

# Admin mode allows chatting without a business selected
admin_mode = false

# Extra page context sent with every chat request (optional)
page_context = ""

# Voice transcription: "backend" (dashboard endpoint) or "openai" (Whisper)
transcriber = "backend"

# Business roster for the selector (ctrl+b)
# [[businesses]]
# id = "biz_001"
# name = "מאפיית הצפון"
`
}
