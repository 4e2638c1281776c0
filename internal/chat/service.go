// Package chat implements the caching text-generation proxy: one
// upstream call per distinct normalized utterance per TTL window.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/avachat/avachat-web/internal/apperr"
	"github.com/avachat/avachat-web/internal/cache"
	"github.com/avachat/avachat-web/internal/llm"
	"github.com/avachat/avachat-web/internal/logger"
)

// systemInstruction is the fixed persona prepended to every prompt.
const systemInstruction = "You are a friendly virtual assistant. " +
	"Keep replies helpful, concise and conversational. " +
	"Never include promotional content."

type Service struct {
	llm    llm.LLM
	cache  *cache.ReplyCache
	logger *logger.Log
}

func NewService(client llm.LLM, replyCache *cache.ReplyCache) *Service {
	return &Service{
		llm:    client,
		cache:  replyCache,
		logger: logger.New(),
	}
}

// NormalizeKey maps user text to its cache address: trimmed and
// case-folded, so "Hello " and "hello" share one entry.
func NormalizeKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Generate returns a reply for the user's text, serving from the cache
// when a fresh entry exists. Upstream failures are returned as-is and
// never cached.
func (s *Service) Generate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &apperr.ValidationError{Msg: "text is required"}
	}

	key := NormalizeKey(text)
	if reply, ok := s.cache.Get(key); ok {
		s.logger.Debug(fmt.Sprintf("cache hit for %q", key))
		return reply, nil
	}

	prompt := systemInstruction + "\n\nUser: " + text
	reply, err := s.llm.GenerateResponse(ctx, prompt)
	if err != nil {
		return "", err
	}

	s.cache.Put(key, reply)
	return reply, nil
}
