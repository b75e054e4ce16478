package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"questline/internal/logging"
	"questline/internal/xerrors"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultTimeout   = 120 * time.Second
	defaultMaxTokens = 4096
)

// OpenAI-compatible chat completions client.
type openaiClient struct {
	model      string
	apiKey     string
	baseURL    string
	maxTokens  int
	httpClient *http.Client
	logger     logging.Logger
}

// NewOpenAIClient constructs a backend client speaking the OpenAI-compatible
// chat completions API using the provided configuration.
func NewOpenAIClient(config Config, logger logging.Logger) (Client, error) {
	if config.Model == "" {
		return nil, errors.New("llm: model is required")
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	logger = logging.OrNop(logger)
	if !config.HasKey() {
		logger.Warn("no API key configured; requests will be sent unauthenticated")
	}
	return &openaiClient{
		model:      config.Model,
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

func (c *openaiClient) Model() string {
	return c.model
}

func (c *openaiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	requestID := uuid.NewString()
	prefix := fmt.Sprintf("[req:%s] ", requestID)

	messages := make([]map[string]string, 0, 2)
	if req.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.User})

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	oaiReq := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": req.Temperature,
		"max_tokens":  maxTokens,
		"stream":      false,
	}

	body, err := json.Marshal(oaiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	c.logger.Debug("%sPOST %s model=%s prompt_len=%d", prefix, endpoint, c.model, len(req.User))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("%sHTTP request failed: %v", prefix, err)
		return nil, xerrors.NewBackendError(err, 0, "")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug("%sfailed to read response body: %v", prefix, err)
		return nil, xerrors.NewBackendError(fmt.Errorf("read response: %w", err), 0, "")
	}

	c.logger.Debug("%sstatus=%d body_len=%d", prefix, resp.StatusCode, len(respBody))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, xerrors.MapHTTPError(resp.StatusCode, respBody)
	}

	var oaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage TokenUsage `json:"usage"`
		Error *struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &oaiResp); err != nil {
		return nil, xerrors.NewBackendError(fmt.Errorf("decode response: %w", err), 0, "")
	}

	if oaiResp.Error != nil && oaiResp.Error.Message != "" {
		errMsg := oaiResp.Error.Message
		if oaiResp.Error.Type != "" {
			errMsg = oaiResp.Error.Type + ": " + oaiResp.Error.Message
		}
		return nil, xerrors.NewBackendError(errors.New(errMsg), resp.StatusCode, errMsg)
	}
	if len(oaiResp.Choices) == 0 {
		return nil, xerrors.NewBackendError(errors.New("no choices in response"), 0, "backend returned an empty response")
	}

	result := &CompletionResponse{
		Content:    oaiResp.Choices[0].Message.Content,
		StopReason: oaiResp.Choices[0].FinishReason,
		Usage:      oaiResp.Usage,
		RequestID:  requestID,
	}
	c.logger.Debug("%sstop=%s content_len=%d tokens=%d", prefix, result.StopReason, len(result.Content), result.Usage.TotalTokens)
	return result, nil
}
