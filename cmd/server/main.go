// cmd/server/main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/avachat/avachat-web/config"
	"github.com/avachat/avachat-web/internal/api"
	"github.com/avachat/avachat-web/internal/avatar"
	"github.com/avachat/avachat-web/internal/cache"
	"github.com/avachat/avachat-web/internal/chat"
	"github.com/avachat/avachat-web/internal/llm"
	"github.com/avachat/avachat-web/internal/tts"
	"github.com/avachat/avachat-web/internal/websocket"
)

func main() {
	// Load config from files and environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Generation model client
	llmClient, err := llm.NewLLMClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	chatService := chat.NewService(llmClient, cache.New(cfg.Cache.TTL()))

	r := mux.NewRouter()

	// WebSocket routes; the hub doubles as the avatar job notifier
	hub := websocket.RegisterRoutes(r)

	avatarClient := avatar.NewClient(avatar.Config{
		BaseURL: cfg.Avatar.BaseURL,
		Credentials: avatar.Credentials{
			APIKey:    cfg.Avatar.APIKey,
			BasicUser: cfg.Avatar.BasicUser,
			BasicPass: cfg.Avatar.BasicPass,
		},
		DefaultSourceURL: cfg.Avatar.SourceURL,
		DefaultVoiceID:   cfg.Avatar.VoiceID,
		PollInterval:     cfg.Avatar.PollInterval(),
		Deadline:         cfg.Avatar.Deadline(),
	}, hub)

	// API routes
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	api.RegisterRoutes(apiRouter, chatService, avatarClient, llmClient)

	// TTS routes (optional; the app runs without them)
	ttsClient, err := tts.New(&cfg.Tts)
	if err != nil {
		log.Printf("Warning: TTS unavailable: %v", err)
	} else {
		api.RegisterTTSRoutes(apiRouter, ttsClient)
	}

	// Static frontend
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("./web/static/"))))
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./web/templates/index.html")
	}).Methods("GET")

	// CORS setup for development
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	log.Printf("🗣️ Avachat Web Server starting on port %s", port)
	log.Printf("📍 Open http://localhost:%s in your browser", port)

	if err := http.ListenAndServe(fmt.Sprintf(":%s", port), handler); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
