package tts

import (
	"context"

	"github.com/avachat/avachat-web/config"
)

// Synthesizer converts reply text to MP3 audio for browsers without a
// usable speech-synthesis engine.
type Synthesizer interface {
	GenerateAudio(ctx context.Context, text, voice string) ([]byte, error)
	Name() string
}

// New creates a synthesizer from configuration, falling back to the
// dummy implementation when synthesis is disabled or unknown.
func New(cfg *config.TtsConfig) (Synthesizer, error) {
	if !cfg.Enabled {
		return NewDummyTts(), nil
	}

	switch cfg.Type {
	case "google":
		return NewWebGoogleTTSClient(cfg.CredentialsFile)
	default:
		return NewDummyTts(), nil
	}
}
