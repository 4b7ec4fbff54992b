package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com/v1"
	anthropicAPIVersion = "2023-06-01"
)

var ErrEmptyMessage = errors.New("message contains no content blocks")

type messagesRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system"`
	Messages    []chatMessage `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// anthropicClient talks to the Anthropic messages endpoint.
type anthropicClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	temperature float64
}

func newAnthropicClient(model, apiKey string) *anthropicClient {
	return &anthropicClient{
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		apiKey:      apiKey,
		model:       apiModelName(model),
		temperature: defaultTemperature,
	}
}

func (that *anthropicClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	request := messagesRequest{
		Model:       that.model,
		MaxTokens:   maxTokens,
		Temperature: that.temperature,
		System:      system,
		Messages: []chatMessage{
			{Role: "user", Content: user},
		},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("could not marshal messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicBaseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not build messages request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", that.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := that.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("messages request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read messages response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("messages returned status %d: %s", resp.StatusCode, raw)
	}

	var message messagesResponse
	if err = json.Unmarshal(raw, &message); err != nil {
		return "", fmt.Errorf("could not unmarshal messages response: %w", err)
	}

	if len(message.Content) == 0 {
		return "", ErrEmptyMessage
	}

	return message.Content[0].Text, nil
}
