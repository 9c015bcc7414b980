package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/config"
	"alfredoptarigan/resume-scorer/internal/logger"
)

const (
	messagesEndpoint   = "https://api.anthropic.com/v1/messages"
	messagesModel      = "claude-sonnet-4-20250514"
	messagesMaxTokens  = 1500
	messagesAPIVersion = "2023-06-01"
)

type messagesRequest struct {
	Model     string            `json:"model"`
	MaxTokens int               `json:"max_tokens"`
	Messages  []messagesMessage `json:"messages"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type messagesErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type messagesClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *zap.Logger
}

// NewMessagesClient returns a TextGenerator that makes one POST per prompt to
// the messages API. No timeout is set beyond the transport defaults; callers
// bound the call through the context.
func NewMessagesClient(apiKey string, log *zap.Logger) TextGenerator {
	return newMessagesClient(messagesEndpoint, apiKey, &http.Client{}, log)
}

func newMessagesClient(endpoint, apiKey string, httpClient *http.Client, log *zap.Logger) *messagesClient {
	return &messagesClient{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(apiKey),
		logger:     logger.WithRemote(log, config.ProviderMessages, messagesModel),
	}
}

func (m *messagesClient) Provider() string {
	return config.ProviderMessages
}

func (m *messagesClient) Model() string {
	return messagesModel
}

// GenerateText implements TextGenerator. The text fragments of the reply are
// concatenated in order.
func (m *messagesClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     messagesModel,
		MaxTokens: messagesMaxTokens,
		Messages:  []messagesMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", remoteError(StageRequest, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", remoteError(StageRequest, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("anthropic-version", messagesAPIVersion)
	if m.apiKey != "" {
		req.Header.Set("x-api-key", m.apiKey)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", remoteError(StageRequest, fmt.Errorf("failed to call messages API: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", remoteError(StageResponse, fmt.Errorf("failed to read response: %w", err))
	}

	m.logger.Debug("messages API response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("response_length", len(respBody)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", remoteError(StageResponse, parseMessagesError(resp.StatusCode, respBody))
	}

	var envelope messagesResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", remoteError(StageResponse, fmt.Errorf("failed to parse response envelope: %w", err))
	}

	var text strings.Builder
	for _, fragment := range envelope.Content {
		if fragment.Type == "text" {
			text.WriteString(fragment.Text)
		}
	}

	return text.String(), nil
}

func parseMessagesError(statusCode int, body []byte) error {
	var errResp messagesErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return fmt.Errorf("messages API returned %d (%s): %s", statusCode, errResp.Error.Type, errResp.Error.Message)
	}

	if len(body) == 0 {
		return fmt.Errorf("messages API returned %d", statusCode)
	}

	return fmt.Errorf("messages API returned %d: %s", statusCode, logger.TruncateForLog(string(body), 200))
}
