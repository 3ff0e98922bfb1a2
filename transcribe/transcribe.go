package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"pinkas/config"
	"pinkas/model"
)

// Transcriber kinds selectable via config.
const (
	KindBackend = "backend"
	KindOpenAI  = "openai"
)

// New creates a transcriber based on configuration.
//
// "backend" (the default) sends audio to the dashboard's own transcription
// endpoint, so the server keys and billing apply. "openai" talks to the
// Whisper API directly with the locally stored key, which works even when
// the dashboard has no transcription endpoint enabled.
func New(cfg *config.Config, creds *config.CredentialStore, backend model.Backend) (model.Transcriber, error) {
	switch cfg.Transcriber {
	case "", KindBackend:
		return backend, nil
	case KindOpenAI:
		return NewWhisper(creds.OpenAIKey())
	default:
		return nil, fmt.Errorf("unknown transcriber: %s", cfg.Transcriber)
	}
}

// Whisper transcribes audio via the OpenAI API.
type Whisper struct {
	client openai.Client
}

// NewWhisper creates a Whisper transcriber. Returns an error if the API
// key is missing.
func NewWhisper(apiKey string) (*Whisper, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for the openai transcriber")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Whisper{client: client}, nil
}

// Transcribe implements model.Transcriber.
func (w *Whisper) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(bytes.NewReader(audio), "recording"+extensionFor(mimeType), mimeType),
	}

	resp, err := w.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/mpeg":
		return ".mp3"
	case "audio/mp4":
		return ".m4a"
	case "audio/ogg":
		return ".ogg"
	case "audio/webm":
		return ".webm"
	case "audio/flac":
		return ".flac"
	default:
		return ".wav"
	}
}
