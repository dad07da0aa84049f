package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vampirenirmal/showrunner/internal/engine"
	"github.com/vampirenirmal/showrunner/internal/metering"
)

// Client is the hosted-LLM generation client. It speaks both the
// Anthropic messages API and the OpenAI chat completions API, selected
// by base URL, and picks the underlying model from the requested mode
// tier. The client makes exactly one attempt per call: the retry policy
// belongs to the engine executor, and the request deadline arrives on
// the caller's context.
type Client struct {
	apiKey      string
	baseURL     string
	beastModel  string
	stableModel string
	httpClient  *http.Client
	limiter     *rate.Limiter
	apiType     string // "anthropic" or "openai"
	meter       *metering.Meter
	logger      *slog.Logger
}

type Option func(*Client)

// WithRateLimit caps outgoing requests across all concurrent engines.
func WithRateLimit(requestsPerMinute, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst)
	}
}

// WithBaseURL points the client at a different endpoint. The API type is
// detected from the URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
		if strings.Contains(baseURL, "openai") {
			c.apiType = "openai"
		} else {
			c.apiType = "anthropic"
		}
	}
}

// WithModels sets the models backing the beast and stable tiers.
func WithModels(beast, stable string) Option {
	return func(c *Client) {
		if beast != "" {
			c.beastModel = beast
		}
		if stable != "" {
			c.stableModel = stable
		}
	}
}

// WithMeter attaches a usage meter. Without one, usage is not tracked.
func WithMeter(meter *metering.Meter) Option {
	return func(c *Client) {
		c.meter = meter
	}
}

// WithLogger configures a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With("component", "generation_client")
	}
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		apiKey:      apiKey,
		baseURL:     "https://api.anthropic.com/v1",
		beastModel:  "claude-3-opus-20240229",
		stableModel: "claude-3-5-sonnet-20241022",
		// No client-level timeout: each call's deadline arrives on its
		// context from the executor, which also cancels the request body
		// when the deadline wins the race.
		httpClient: &http.Client{Transport: transport},
		limiter:    rate.NewLimiter(rate.Limit(1), 2),
		apiType:    "anthropic",
		logger:     slog.Default().With("component", "generation_client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger.Debug("generation client initialized",
		"api_type", c.apiType,
		"base_url", c.baseURL,
		"beast_model", c.beastModel,
		"stable_model", c.stableModel,
		"rate_limit", fmt.Sprintf("%v req/s", c.limiter.Limit()))

	return c
}

// Generate implements engine.Generator.
func (c *Client) Generate(ctx context.Context, prompt string, opts engine.GenerateOptions) (string, error) {
	requestID := fmt.Sprintf("gen_%d", time.Now().UnixNano())
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	model := c.modelFor(opts.Mode)
	c.logger.Debug("sending generation request",
		"request_id", requestID,
		"api_type", c.apiType,
		"model", model,
		"mode", opts.Mode,
		"prompt_length", len(prompt),
		"max_tokens", opts.MaxTokens,
		"temperature", opts.Temperature)

	var content string
	var err error
	if c.apiType == "openai" {
		content, err = c.doOpenAIRequest(ctx, requestID, model, prompt, opts)
	} else {
		content, err = c.doAnthropicRequest(ctx, requestID, model, prompt, opts)
	}

	if err != nil {
		if c.meter != nil {
			c.meter.RecordFailure()
		}
		c.logger.Warn("generation request failed",
			"request_id", requestID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return "", err
	}

	if c.meter != nil {
		c.meter.RecordRequest(len(prompt)+len(opts.SystemPrompt), len(content), string(opts.Mode))
	}
	c.logger.Info("generation request completed",
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
		"response_length", len(content))

	return content, nil
}

func (c *Client) modelFor(mode engine.Mode) string {
	if mode == engine.ModeBeast {
		return c.beastModel
	}
	return c.stableModel
}

func (c *Client) doAnthropicRequest(ctx context.Context, requestID, model, prompt string, opts engine.GenerateOptions) (string, error) {
	requestBody := map[string]interface{}{
		"model":       model,
		"system":      opts.SystemPrompt,
		"max_tokens":  maxTokensOrDefault(opts.MaxTokens),
		"temperature": opts.Temperature,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	respBody, err := c.post(ctx, requestID, "/messages", requestBody, map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return "", err
	}

	var response struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	c.logger.Debug("anthropic usage",
		"request_id", requestID,
		"input_tokens", response.Usage.InputTokens,
		"output_tokens", response.Usage.OutputTokens)

	return response.Content[0].Text, nil
}

func (c *Client) doOpenAIRequest(ctx context.Context, requestID, model, prompt string, opts engine.GenerateOptions) (string, error) {
	messages := []map[string]string{
		{"role": "system", "content": opts.SystemPrompt},
		{"role": "user", "content": prompt},
	}
	requestBody := map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"max_tokens":  maxTokensOrDefault(opts.MaxTokens),
		"temperature": opts.Temperature,
	}

	respBody, err := c.post(ctx, requestID, "/chat/completions", requestBody, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	})
	if err != nil {
		return "", err
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	c.logger.Debug("openai usage",
		"request_id", requestID,
		"prompt_tokens", response.Usage.PromptTokens,
		"completion_tokens", response.Usage.CompletionTokens)

	return response.Choices[0].Message.Content, nil
}

func (c *Client) post(ctx context.Context, requestID, path string, requestBody map[string]interface{}, headers map[string]string) ([]byte, error) {
	body, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	httpStart := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("HTTP response received",
		"request_id", requestID,
		"endpoint", path,
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(httpStart).Milliseconds(),
		"body_size", len(respBody))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func maxTokensOrDefault(n int) int {
	if n <= 0 {
		return 1024
	}
	return n
}
