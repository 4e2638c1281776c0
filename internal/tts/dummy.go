package tts

import (
	"context"
	"fmt"

	"github.com/avachat/avachat-web/internal/logger"
)

type DummyTts struct {
}

func NewDummyTts() *DummyTts {
	return &DummyTts{}
}

func (d *DummyTts) GenerateAudio(_ context.Context, text, voice string) ([]byte, error) {
	logger.New().Debug("no tts configured. ignoring synthesis request")
	return nil, fmt.Errorf("no speech synthesizer configured")
}

func (d *DummyTts) Name() string {
	return "dummy"
}
