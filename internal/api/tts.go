package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/avachat/avachat-web/internal/tts"
)

// TTSHandler serves server-side speech synthesis for browsers whose
// own speech engine is unavailable.
type TTSHandler struct {
	ttsClient tts.Synthesizer
}

type TTSRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

func NewTTSHandler(client tts.Synthesizer) *TTSHandler {
	return &TTSHandler{ttsClient: client}
}

// POST /api/v1/tts/speak - Generate and stream TTS audio
func (th *TTSHandler) SpeakText(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Text == "" {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	audioData, err := th.ttsClient.GenerateAudio(ctx, req.Text, req.Voice)
	if err != nil {
		http.Error(w, "Failed to generate TTS: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Stream MP3 audio to browser
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "no-cache")

	if _, err := w.Write(audioData); err != nil {
		http.Error(w, "Failed to stream audio", http.StatusInternalServerError)
		return
	}
}

func RegisterTTSRoutes(r *mux.Router, client tts.Synthesizer) {
	if client == nil {
		// Allows the app to run without TTS when Google credentials
		// aren't configured.
		return
	}

	th := NewTTSHandler(client)
	r.HandleFunc("/tts/speak", th.SpeakText).Methods("POST")
}
