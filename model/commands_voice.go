package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pinkas/config"
)

// ErrNoTranscriber is returned when voice input is used without a
// configured transcriber.
var ErrNoTranscriber = errors.New("no transcriber configured")

// TranscribeFile reads a recorded audio file and sends it for
// transcription. The resulting text lands in the input field, not the
// conversation; the user still reviews and sends it.
func (m *Model) TranscribeFile(path string) tea.Cmd {
	transcriber := m.Transcriber
	return func() tea.Msg {
		if transcriber == nil {
			return TranscriptionDoneMsg{Err: ErrNoTranscriber}
		}
		audio, err := os.ReadFile(config.ExpandPath(path))
		if err != nil {
			return TranscriptionDoneMsg{Err: err}
		}
		text, err := transcriber.Transcribe(context.Background(), audio, audioMimeType(path))
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[voice] transcription failed: %v", err)
		}
		return TranscriptionDoneMsg{Text: text, Err: err}
	}
}

func audioMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	case ".flac":
		return "audio/flac"
	default:
		return "audio/wav"
	}
}
