// Package avatar implements the talking-avatar video proxy: a job is
// created on the remote rendering service via a tiered fallback
// cascade, then polled to completion under a wall-clock deadline.
package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avachat/avachat-web/internal/apperr"
	"github.com/avachat/avachat-web/internal/logger"
)

// Endpoint paths vary across rendering service deployments. The
// modern path is tried first, the legacy one kept as fallback.
const (
	modernTalksPath = "/talks"
	legacyTalksPath = "/v1/talks"

	voiceProviderType = "microsoft"
)

const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusError   = "error"
)

// Config holds the per-process settings of the proxy, resolved once
// at startup from configuration.
type Config struct {
	BaseURL          string
	Credentials      Credentials
	DefaultSourceURL string
	DefaultVoiceID   string
	PollInterval     time.Duration
	Deadline         time.Duration
}

// Notifier receives job progress events. The websocket hub implements
// it; a nil notifier disables publishing.
type Notifier interface {
	PublishJobEvent(id, status string)
}

// TalkResult is the successful outcome of a synthesis request.
type TalkResult struct {
	ID       string `json:"id"`
	VideoURL string `json:"videoUrl"`
}

type createResponse struct {
	ID string `json:"id"`
}

type statusResponse struct {
	Status    string `json:"status"`
	ResultURL string `json:"result_url"`
	Error     string `json:"error"`
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *logger.Log
	notifier   Notifier

	// Injectable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config, notifier Notifier) *Client {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 1200 * time.Millisecond
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = 30 * time.Second
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.New(),
		notifier:   notifier,
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

// sleepCtx suspends for d without blocking other in-flight requests,
// returning early when ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Synthesize creates a rendering job for the given text and waits for
// its video URL. Empty sourceURL and voiceID fall back to the
// configured defaults.
func (c *Client) Synthesize(ctx context.Context, text, sourceURL, voiceID string) (*TalkResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &apperr.ValidationError{Msg: "text is required"}
	}
	if sourceURL == "" {
		sourceURL = c.cfg.DefaultSourceURL
	}
	if voiceID == "" {
		voiceID = c.cfg.DefaultVoiceID
	}

	authHeader, err := c.cfg.Credentials.AuthHeader()
	if err != nil {
		return nil, err
	}

	// The deadline clock starts at first submission, not first poll.
	deadline := c.now().Add(c.cfg.Deadline)

	id, err := c.createTalk(ctx, authHeader, text, sourceURL, voiceID)
	if err != nil {
		return nil, err
	}
	c.publish(id, StatusPending)

	videoURL, err := c.awaitTalk(ctx, authHeader, id, deadline)
	if err != nil {
		return nil, err
	}

	c.publish(id, StatusDone)
	return &TalkResult{ID: id, VideoURL: videoURL}, nil
}

// attempt is one (endpoint, payload-shape) combination of the
// submission cascade.
type attempt struct {
	name    string
	path    string
	payload func(text, sourceURL, voiceID string) map[string]interface{}
}

func minimalPayload(text, sourceURL, _ string) map[string]interface{} {
	return map[string]interface{}{
		"source_url": sourceURL,
		"script": map[string]interface{}{
			"type":  "text",
			"input": text,
		},
	}
}

func voiceProviderPayload(text, sourceURL, voiceID string) map[string]interface{} {
	return map[string]interface{}{
		"source_url": sourceURL,
		"script": map[string]interface{}{
			"type":  "text",
			"input": text,
			"provider": map[string]interface{}{
				"type":     voiceProviderType,
				"voice_id": voiceID,
			},
		},
	}
}

// submissionAttempts lists the cascade in strict order: cheapest and
// most widely supported combinations first. Endpoint capability and
// payload schema vary independently across deployments, so every
// combination is a candidate.
func submissionAttempts() []attempt {
	return []attempt{
		{name: "modern/minimal", path: modernTalksPath, payload: minimalPayload},
		{name: "modern/voice-provider", path: modernTalksPath, payload: voiceProviderPayload},
		{name: "legacy/minimal", path: legacyTalksPath, payload: minimalPayload},
		{name: "legacy/voice-provider", path: legacyTalksPath, payload: voiceProviderPayload},
	}
}

// createTalk submits the rendering job, trying each cascade tier in
// order and stopping at the first success. Only the final tier's
// failure is surfaced; earlier ones are logged.
func (c *Client) createTalk(ctx context.Context, authHeader, text, sourceURL, voiceID string) (string, error) {
	var lastErr error

	for _, a := range submissionAttempts() {
		body, err := json.Marshal(a.payload(text, sourceURL, voiceID))
		if err != nil {
			return "", fmt.Errorf("failed to marshal talk payload: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+a.path, bytes.NewBuffer(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", authHeader)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn(fmt.Sprintf("talk submission tier %s failed: %v", a.name, err))
			lastErr = fmt.Errorf("talk submission failed: %w", err)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			c.logger.Warn(fmt.Sprintf("talk submission tier %s failed: %v", a.name, readErr))
			lastErr = fmt.Errorf("failed to read submission response: %w", readErr)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			c.logger.Warn(fmt.Sprintf("talk submission tier %s returned status %d: %s",
				a.name, resp.StatusCode, string(respBody)))
			lastErr = &apperr.UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
			continue
		}

		var created createResponse
		if err := json.Unmarshal(respBody, &created); err != nil || created.ID == "" {
			c.logger.Warn(fmt.Sprintf("talk submission tier %s returned no job id: %s", a.name, string(respBody)))
			lastErr = &apperr.UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
			continue
		}

		c.logger.Debug(fmt.Sprintf("talk %s created via tier %s", created.ID, a.name))
		return created.ID, nil
	}

	return "", lastErr
}

// pollOnce reads the job status from the primary endpoint, retrying
// the same poll once against the legacy path before giving up.
func (c *Client) pollOnce(ctx context.Context, authHeader, id string) (*statusResponse, error) {
	st, err := c.getStatus(ctx, authHeader, modernTalksPath, id)
	if err == nil {
		return st, nil
	}
	c.logger.Warn(fmt.Sprintf("primary status poll for talk %s failed, retrying legacy path: %v", id, err))
	return c.getStatus(ctx, authHeader, legacyTalksPath, id)
}

func (c *Client) getStatus(ctx context.Context, authHeader, basePath, id string) (*statusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.cfg.BaseURL+basePath+"/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}
	req.Header.Set("Authorization", authHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status poll failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperr.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var st statusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status response: %w", err)
	}
	return &st, nil
}

// awaitTalk polls until the job is done, failed, or the deadline
// elapses. Unknown status values keep the loop going; the remote
// vocabulary is not fully known ahead of time.
func (c *Client) awaitTalk(ctx context.Context, authHeader, id string, deadline time.Time) (string, error) {
	lastStatus := StatusPending

	for {
		st, err := c.pollOnce(ctx, authHeader, id)
		if err != nil {
			return "", err
		}

		switch st.Status {
		case StatusDone:
			if st.ResultURL != "" {
				return st.ResultURL, nil
			}
			c.logger.Warn(fmt.Sprintf("talk %s reported done without a result URL, still waiting", id))
		case StatusError:
			c.publish(id, StatusError)
			return "", &apperr.UpstreamError{StatusCode: 0, Body: st.Error}
		case StatusPending, "created", "started":
			// Still rendering.
		default:
			c.logger.Warn(fmt.Sprintf("talk %s reported unrecognized status %q, treating as pending", id, st.Status))
		}

		if st.Status != "" {
			lastStatus = st.Status
		}
		c.publish(id, StatusPending)

		if !c.now().Before(deadline) {
			return "", &apperr.TimeoutError{JobID: id, LastStatus: lastStatus}
		}
		if err := c.sleep(ctx, c.cfg.PollInterval); err != nil {
			return "", err
		}
	}
}

func (c *Client) publish(id, status string) {
	if c.notifier != nil {
		c.notifier.PublishJobEvent(id, status)
	}
}
