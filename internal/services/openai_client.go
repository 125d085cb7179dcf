package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jhjh0512/echo-fm-backend/internal/httpx"
	"github.com/jhjh0512/echo-fm-backend/internal/logger"
	"github.com/jhjh0512/echo-fm-backend/internal/utils"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Messages    []ChatMessage
}

type OpenAIClient interface {
	ChatComplete(ctx context.Context, req ChatRequest) (string, error)
	Speech(ctx context.Context, text, voice string) ([]byte, error)
}

type openAIClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client

	maxRetries int
}

func NewOpenAIClient(log *logger.Logger) (OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	timeoutSec := utils.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 120, log)
	if timeoutSec <= 0 {
		timeoutSec = 120
	}

	maxRetries := utils.GetEnvAsInt("OPENAI_MAX_RETRIES", 3, log)
	if maxRetries < 0 {
		maxRetries = 3
	}

	return &openAIClient{
		log:        log.With("service", "OpenAIClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type openAIHTTPError struct {
	StatusCode int
	Body       string
}

func (e *openAIHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *openAIHTTPError) HTTPStatusCode() int { return e.StatusCode }

func (c *openAIClient) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &openAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

// do posts body to path with capped exponential backoff. The raw response body
// of the last successful call is returned so callers decode it themselves;
// /v1/audio/speech responds with audio bytes, not JSON.
func (c *openAIClient) do(ctx context.Context, path string, body any) ([]byte, error) {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			return raw, nil
		}

		if !httpx.IsRetryableError(err) {
			return nil, err
		}
		if attempt == c.maxRetries {
			return nil, err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return nil, fmt.Errorf("unreachable retry loop")
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Messages    []ChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openAIClient) ChatComplete(ctx context.Context, req ChatRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("messages required")
	}
	body := chatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages:    req.Messages,
	}

	raw, err := c.do(ctx, "/v1/chat/completions", body)
	if err != nil {
		return "", err
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("openai decode error: %w; raw=%s", err, string(raw))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type speechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}

func (c *openAIClient) Speech(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text required")
	}
	model := os.Getenv("OPENAI_TTS_MODEL")
	if model == "" {
		model = "tts-1"
	}
	return c.do(ctx, "/v1/audio/speech", speechRequest{
		Model: model,
		Voice: voice,
		Input: text,
	})
}
