// internal/llm/gemini/gemini.go
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avachat/avachat-web/config"
	"github.com/avachat/avachat-web/internal/apperr"
	"github.com/avachat/avachat-web/internal/logger"
)

// Fixed sampling parameters for conversational replies.
const (
	temperature     = 0.7
	topK            = 40
	topP            = 0.95
	maxOutputTokens = 1024
)

type Client struct {
	apiKey     string
	baseURL    string
	config     *config.GeminiConfig
	logger     *logger.Log
	httpClient *http.Client
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type modelInfo struct {
	Name string `json:"name"`
}

type modelsResponse struct {
	Models []modelInfo `json:"models"`
}

func NewClient(cfg *config.GeminiConfig) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		config:  cfg,
		logger:  logger.New(),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}, nil
}

func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", &apperr.ConfigurationError{Msg: "gemini API key is not configured"}
	}

	req := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			TopK:            topK,
			TopP:            topP,
			MaxOutputTokens: maxOutputTokens,
		},
	}

	c.logger.Debug(fmt.Sprintf("Generating response with Gemini model %s", c.config.Model))

	requestBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.config.Model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WithError(err).Error("Failed to make Gemini request")
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error(fmt.Sprintf("Gemini API returned status %d: %s", resp.StatusCode, string(body)))
		return "", &apperr.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	// A malformed or empty candidate structure is not an error; the
	// reply is simply empty.
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

func (c *Client) IsModelAvailable(ctx context.Context) error {
	if c.apiKey == "" {
		return &apperr.ConfigurationError{Msg: "gemini API key is not configured"}
	}

	url := fmt.Sprintf("%s/v1beta/models?key=%s", c.baseURL, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to list models: status %d, body: %s", resp.StatusCode, string(body))
	}

	var modelsResp modelsResponse
	if err := json.Unmarshal(body, &modelsResp); err != nil {
		return fmt.Errorf("failed to unmarshal models response: %w", err)
	}

	want := "models/" + c.config.Model
	var available []string
	for _, model := range modelsResp.Models {
		if model.Name == want {
			return nil
		}
		available = append(available, model.Name)
	}

	return fmt.Errorf("model %s not found. Available models: %v", c.config.Model, available)
}
