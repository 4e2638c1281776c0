package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/avachat/avachat-web/internal/apperr"
	"github.com/avachat/avachat-web/internal/avatar"
	"github.com/avachat/avachat-web/internal/cache"
	"github.com/avachat/avachat-web/internal/chat"
)

type fakeLLM struct {
	calls int
	reply string
	err   error
}

func (f *fakeLLM) GenerateResponse(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) IsModelAvailable(_ context.Context) error { return nil }

type fakeAvatar struct {
	result *avatar.TalkResult
	err    error
	voice  string
}

func (f *fakeAvatar) Synthesize(_ context.Context, _, _, voiceID string) (*avatar.TalkResult, error) {
	f.voice = voiceID
	return f.result, f.err
}

func newRouter(model *fakeLLM, av avatarService) *mux.Router {
	chatSvc := chat.NewService(model, cache.New(5*time.Minute))
	r := mux.NewRouter()
	RegisterRoutes(r.PathPrefix("/api/v1").Subrouter(), chatSvc, av, nil)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatEndToEnd(t *testing.T) {
	model := &fakeLLM{reply: "Hi there!"}
	r := newRouter(model, &fakeAvatar{})

	w := doJSON(t, r, "POST", "/api/v1/chat", `{"text":"Hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp chatResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Reply != "Hi there!" {
		t.Errorf("unexpected reply: %q", resp.Reply)
	}

	// Second identical call is served from cache.
	w2 := doJSON(t, r, "POST", "/api/v1/chat", `{"text":"Hello"}`)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w2.Code)
	}
	if model.calls != 1 {
		t.Errorf("expected exactly one upstream call, got %d", model.calls)
	}
}

func TestChatValidation(t *testing.T) {
	model := &fakeLLM{}
	r := newRouter(model, &fakeAvatar{})

	w := doJSON(t, r, "POST", "/api/v1/chat", `{"text":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if model.calls != 0 {
		t.Errorf("expected zero upstream calls, got %d", model.calls)
	}
}

func TestChatUpstreamError(t *testing.T) {
	model := &fakeLLM{err: &apperr.UpstreamError{StatusCode: 503, Body: "overloaded"}}
	r := newRouter(model, &fakeAvatar{})

	w := doJSON(t, r, "POST", "/api/v1/chat", `{"text":"Hello"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}

	var resp errorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Detail != "overloaded" {
		t.Errorf("expected raw upstream body, got %q", resp.Detail)
	}
	if status, ok := resp.Status.(float64); !ok || int(status) != 503 {
		t.Errorf("expected upstream status 503, got %v", resp.Status)
	}
}

func TestChatConfigurationError(t *testing.T) {
	model := &fakeLLM{err: &apperr.ConfigurationError{Msg: "no api key"}}
	r := newRouter(model, &fakeAvatar{})

	w := doJSON(t, r, "POST", "/api/v1/chat", `{"text":"Hello"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestCreateTalkSuccess(t *testing.T) {
	av := &fakeAvatar{result: &avatar.TalkResult{ID: "job123", VideoURL: "https://x/y.mp4"}}
	r := newRouter(&fakeLLM{}, av)

	w := doJSON(t, r, "POST", "/api/v1/avatar/talks", `{"text":"Hello","voice_id":"jenny"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp avatar.TalkResult
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ID != "job123" || resp.VideoURL != "https://x/y.mp4" {
		t.Errorf("unexpected result: %+v", resp)
	}

	// Loose voice name was resolved to a catalog voice id.
	if av.voice != "en-US-JennyNeural" {
		t.Errorf("expected resolved voice id, got %q", av.voice)
	}
}

func TestCreateTalkTimeout(t *testing.T) {
	av := &fakeAvatar{err: &apperr.TimeoutError{JobID: "job9", LastStatus: "pending"}}
	r := newRouter(&fakeLLM{}, av)

	w := doJSON(t, r, "POST", "/api/v1/avatar/talks", `{"text":"Hello"}`)
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", w.Code)
	}

	var resp errorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ID != "job9" {
		t.Errorf("expected job id in error body, got %q", resp.ID)
	}
	if resp.Status != "pending" {
		t.Errorf("expected last status in error body, got %v", resp.Status)
	}
}

func TestCreateTalkUpstreamError(t *testing.T) {
	av := &fakeAvatar{err: &apperr.UpstreamError{Body: "render exploded"}}
	r := newRouter(&fakeLLM{}, av)

	w := doJSON(t, r, "POST", "/api/v1/avatar/talks", `{"text":"Hello"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestListVoices(t *testing.T) {
	r := newRouter(&fakeLLM{}, &fakeAvatar{})

	req := httptest.NewRequest("GET", "/api/v1/voices", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Voices []struct {
			ID string `json:"id"`
		} `json:"voices"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Voices) == 0 {
		t.Error("expected a non-empty voice catalog")
	}
}
