package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avachat/avachat-web/config"
	"github.com/avachat/avachat-web/internal/apperr"
)

func newTestClient(t *testing.T, upstream *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(&config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		BaseURL: upstream.URL,
		Timeout: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestGenerateResponse(t *testing.T) {
	var gotBody generateRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Error("expected API key in query string")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode upstream request: %v", err)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hi there!"}]}}]}`))
	}))
	defer upstream.Close()

	c := newTestClient(t, upstream)
	reply, err := c.GenerateResponse(context.Background(), "Hello")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Hi there!" {
		t.Errorf("unexpected reply: %q", reply)
	}

	cfg := gotBody.GenerationConfig
	if cfg.Temperature != 0.7 || cfg.TopK != 40 || cfg.TopP != 0.95 || cfg.MaxOutputTokens != 1024 {
		t.Errorf("unexpected sampling config: %+v", cfg)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "Hello" {
		t.Errorf("unexpected prompt payload: %+v", gotBody.Contents)
	}
}

func TestGenerateResponseMissingCandidates(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"candidates":[]}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
	} {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		c := newTestClient(t, upstream)
		reply, err := c.GenerateResponse(context.Background(), "Hello")
		if err != nil {
			t.Errorf("body %s: unexpected error: %v", body, err)
		}
		if reply != "" {
			t.Errorf("body %s: expected empty reply, got %q", body, reply)
		}
		upstream.Close()
	}
}

func TestGenerateResponseUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"overloaded"}`))
	}))
	defer upstream.Close()

	c := newTestClient(t, upstream)
	_, err := c.GenerateResponse(context.Background(), "Hello")

	var upErr *apperr.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", upErr.StatusCode)
	}
	if upErr.Body != `{"error":"overloaded"}` {
		t.Errorf("expected raw error body, got %q", upErr.Body)
	}
}

func TestGenerateResponseMissingAPIKey(t *testing.T) {
	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer upstream.Close()

	c, _ := NewClient(&config.GeminiConfig{Model: "gemini-1.5-flash", BaseURL: upstream.URL})
	_, err := c.GenerateResponse(context.Background(), "Hello")

	var cfgErr *apperr.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no upstream calls, got %d", calls)
	}
}
