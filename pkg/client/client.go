// Package client provides the HTTP client for the crypto-assistant backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shawkym/moragents-tui/pkg/log"
	"github.com/shawkym/moragents-tui/pkg/message"
	"github.com/shawkym/moragents-tui/pkg/metrics"
	"github.com/shawkym/moragents-tui/pkg/ratelimit"
)

// Backend endpoints.
const (
	PathAvailableAgents = "/agents/available"
	PathXAPIKeys        = "/tweet/x-api-key"
	PathPostTweet       = "/tweet/post"
	PathChat            = "/chat"
	PathProcessHotels   = "/hotel_finder/process_hotels"
)

// Client talks to the backend. Requests are made once; failures are
// returned to the caller and never retried here.
type Client struct {
	mu         sync.RWMutex
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	userAgent  string
	limiter    *ratelimit.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimiter throttles outgoing requests. A 429 response carrying
// Retry-After pauses the limiter; the failed request is still returned.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithMetrics records request metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a backend client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the current backend URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL points subsequent requests at a new backend.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.mu.Unlock()

	log.WithField("backend_url", baseURL).Info("backend url updated")
}

// AvailableAgentsResponse is the body of GET /agents/available.
type AvailableAgentsResponse struct {
	SelectedAgents []string `json:"selected_agents"`
}

// AvailableAgents returns the identifiers of the enabled agents, in
// backend order.
func (c *Client) AvailableAgents(ctx context.Context) ([]string, error) {
	var resp AvailableAgentsResponse
	if err := c.do(ctx, http.MethodGet, PathAvailableAgents, nil, &resp); err != nil {
		return nil, err
	}
	return resp.SelectedAgents, nil
}

// XAPIKeys is the wire form of the X credentials.
type XAPIKeys struct {
	APIKey            string `json:"api_key"`
	APISecret         string `json:"api_secret"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`
	BearerToken       string `json:"bearer_token"`
}

// SetXAPIKeys registers X API credentials with the backend.
func (c *Client) SetXAPIKeys(ctx context.Context, keys XAPIKeys) error {
	return c.do(ctx, http.MethodPost, PathXAPIKeys, keys, nil)
}

// PostTweet publishes generated tweet content through the backend.
func (c *Client) PostTweet(ctx context.Context, content string) error {
	body := struct {
		PostContent string `json:"post_content"`
	}{PostContent: content}
	return c.do(ctx, http.MethodPost, PathPostTweet, body, nil)
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Prompt ChatPrompt `json:"prompt"`
	ChatID string     `json:"chat_id,omitempty"`
}

// ChatPrompt is the user turn sent to the backend.
type ChatPrompt struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat sends a user prompt and returns the agent's reply.
func (c *Client) Chat(ctx context.Context, chatID, prompt string) (message.ChatMessage, error) {
	req := ChatRequest{
		Prompt: ChatPrompt{Role: string(message.RoleUser), Content: prompt},
		ChatID: chatID,
	}

	var wire message.WireMessage
	if err := c.do(ctx, http.MethodPost, PathChat, req, &wire); err != nil {
		return message.ChatMessage{}, err
	}
	return message.FromWire(wire), nil
}

// ProcessHotels submits a hotel search and returns the agent's reply.
func (c *Client) ProcessHotels(ctx context.Context, search message.HotelSearch) (message.ChatMessage, error) {
	var wire message.WireMessage
	if err := c.do(ctx, http.MethodPost, PathProcessHotels, search, &wire); err != nil {
		return message.ChatMessage{}, err
	}
	return message.FromWire(wire), nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	start := time.Now()
	status := "error"
	defer func() {
		c.metrics.RecordBackendRequest(path, status, time.Since(start))
	}()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.BaseURL()+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	log.WithFields(map[string]interface{}{
		"method": method,
		"url":    httpReq.URL.String(),
	}).Debug("sending backend request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode == http.StatusTooManyRequests {
		if d, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			c.limiter.Pause(d)
			log.WithField("retry_after", d.String()).Warn("backend rate limited requests")
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return handleErrorResponse(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// retryAfter parses a Retry-After header in either delay-seconds or
// HTTP-date form.
func retryAfter(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d, true
		}
	}
	return 0, false
}

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// handleErrorResponse turns a non-2xx response into a StatusError, using
// the backend's {"message": ...} body when present.
func handleErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &StatusError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read error body: %v", err)}
	}

	var errorResp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Message != "" {
		return &StatusError{StatusCode: resp.StatusCode, Message: errorResp.Message}
	}

	return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}
