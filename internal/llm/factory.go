// internal/llm/factory.go
package llm

import (
	"fmt"

	"github.com/avachat/avachat-web/config"
	"github.com/avachat/avachat-web/internal/llm/gemini"
	"github.com/avachat/avachat-web/internal/llm/ollama"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// NewLLMClient creates a new LLM client based on the configuration
func NewLLMClient(cfg *config.Config) (LLM, error) {
	switch Provider(cfg.LLM.Provider) {
	case ProviderGemini:
		return gemini.NewClient(&cfg.Gemini)
	case ProviderOllama:
		return ollama.NewClient(&cfg.Ollama)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
	}
}
