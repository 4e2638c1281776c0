// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/avachat/avachat-web/internal/avatar"
	"github.com/avachat/avachat-web/internal/llm"
	"github.com/avachat/avachat-web/internal/voices"
)

// chatService is the caching text-generation proxy contract.
type chatService interface {
	Generate(ctx context.Context, text string) (string, error)
}

// avatarService is the avatar-video proxy contract.
type avatarService interface {
	Synthesize(ctx context.Context, text, sourceURL, voiceID string) (*avatar.TalkResult, error)
}

type Handler struct {
	chat   chatService
	avatar avatarService
	voices *voices.Resolver
	llm    llm.LLM
}

func NewHandler(chat chatService, av avatarService, model llm.LLM) *Handler {
	return &Handler{
		chat:   chat,
		avatar: av,
		voices: voices.NewResolver(),
		llm:    model,
	}
}

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// POST /api/v1/chat - Generate a reply for a user utterance
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// A detached context: a browser abandoning the request does not
	// stop the in-flight upstream call.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reply, err := h.chat.Generate(ctx, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{Reply: reply})
}

type talkRequest struct {
	Text      string `json:"text"`
	SourceURL string `json:"source_url"`
	VoiceID   string `json:"voice_id"`
}

// POST /api/v1/avatar/talks - Render a talking-avatar video for text
func (h *Handler) CreateTalk(w http.ResponseWriter, r *http.Request) {
	var req talkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.VoiceID != "" {
		req.VoiceID = h.voices.Resolve(req.VoiceID)
	}

	// Submission plus the 30s poll deadline, with headroom.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := h.avatar.Synthesize(ctx, req.Text, req.SourceURL, req.VoiceID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GET /api/v1/voices - List the avatar voice catalog
func (h *Handler) ListVoices(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"voices": voices.Catalog(),
	})
}

// GET /api/v1/health - Liveness plus generation model reachability
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{"status": "ok"}

	if h.llm != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.llm.IsModelAvailable(ctx); err != nil {
			status["model"] = "unavailable"
			status["detail"] = err.Error()
		} else {
			status["model"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func RegisterRoutes(r *mux.Router, chat chatService, av avatarService, model llm.LLM) *Handler {
	h := NewHandler(chat, av, model)

	r.HandleFunc("/chat", h.Chat).Methods("POST")
	r.HandleFunc("/avatar/talks", h.CreateTalk).Methods("POST")
	r.HandleFunc("/voices", h.ListVoices).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")

	return h
}
