package transcribe

import (
	"strings"
	"testing"

	"pinkas/api/testutil"
	"pinkas/config"
)

func TestNewRoutesToBackend(t *testing.T) {
	backend := testutil.NewMockBackend()
	creds := config.NewCredentialStore(config.SecurityPlainText, "")

	for _, kind := range []string{"", KindBackend} {
		cfg := &config.Config{Transcriber: kind}
		got, err := New(cfg, creds, backend)
		if err != nil {
			t.Fatalf("New(%q): %v", kind, err)
		}
		if got != backend {
			t.Errorf("New(%q): got %T, want the backend itself", kind, got)
		}
	}
}

func TestNewOpenAI(t *testing.T) {
	t.Setenv("PINKAS_OPENAI_KEY", "")

	creds := config.NewCredentialStore(config.SecurityPlainText, "")
	creds.Set(config.CredentialOpenAI, "sk_test_123")

	cfg := &config.Config{Transcriber: KindOpenAI}
	got, err := New(cfg, creds, testutil.NewMockBackend())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := got.(*Whisper); !ok {
		t.Errorf("New: got %T, want *Whisper", got)
	}
}

func TestNewOpenAIWithoutKey(t *testing.T) {
	t.Setenv("PINKAS_OPENAI_KEY", "")

	creds := config.NewCredentialStore(config.SecurityPlainText, "")
	cfg := &config.Config{Transcriber: KindOpenAI}

	if _, err := New(cfg, creds, testutil.NewMockBackend()); err == nil {
		t.Fatal("New: expected error for missing API key, got nil")
	}
}

func TestNewUnknownKind(t *testing.T) {
	creds := config.NewCredentialStore(config.SecurityPlainText, "")
	cfg := &config.Config{Transcriber: "azure"}

	_, err := New(cfg, creds, testutil.NewMockBackend())
	if err == nil {
		t.Fatal("New: expected error for unknown kind, got nil")
	}
	if !strings.Contains(err.Error(), "unknown transcriber") {
		t.Errorf("error = %q, want mention of unknown transcriber", err)
	}
}

func TestNewWhisperRequiresKey(t *testing.T) {
	if _, err := NewWhisper(""); err == nil {
		t.Fatal("NewWhisper(\"\"): expected error, got nil")
	}

	w, err := NewWhisper("sk_test_123")
	if err != nil {
		t.Fatalf("NewWhisper: %v", err)
	}
	if w == nil {
		t.Fatal("NewWhisper: got nil transcriber")
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"audio/mpeg", ".mp3"},
		{"audio/mp4", ".m4a"},
		{"audio/ogg", ".ogg"},
		{"audio/webm", ".webm"},
		{"audio/flac", ".flac"},
		{"audio/wav", ".wav"},
		{"", ".wav"},
	}

	for _, tt := range tests {
		if got := extensionFor(tt.mimeType); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.mimeType, got, tt.want)
		}
	}
}
