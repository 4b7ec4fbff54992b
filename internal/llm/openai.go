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
)

const openAIBaseURL = "https://api.openai.com/v1"

var ErrEmptyCompletion = errors.New("completion contains no choices")

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model           string          `json:"model"`
	Messages        []chatMessage   `json:"messages"`
	Temperature     float64         `json:"temperature,omitempty"`
	ResponseFormat  *responseFormat `json:"response_format,omitempty"`
	ReasoningEffort string          `json:"reasoning_effort,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// openAIClient talks to any chat-completions compatible endpoint. Gemini,
// DeepSeek, Groq and local Ollama all expose this wire shape behind their
// own base URLs.
type openAIClient struct {
	httpClient      *http.Client
	baseURL         string
	apiKey          string
	model           string
	temperature     float64
	reasoningEffort string
	stripThinking   bool
}

func newOpenAIClient(model, baseURL, apiKey string) *openAIClient {
	return &openAIClient{
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       apiModelName(model),
		temperature: defaultTemperature,
	}
}

func (that *openAIClient) Complete(ctx context.Context, system, user string, _ int) (string, error) {
	request := chatRequest{
		Model: that.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat:  &responseFormat{Type: "json_object"},
		ReasoningEffort: that.reasoningEffort,
	}
	if that.reasoningEffort == "" {
		request.Temperature = that.temperature
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("could not marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+that.apiKey)

	resp, err := that.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion returned status %d: %s", resp.StatusCode, raw)
	}

	var completion chatResponse
	if err = json.Unmarshal(raw, &completion); err != nil {
		return "", fmt.Errorf("could not unmarshal completion response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	reply := completion.Choices[0].Message.Content
	if that.stripThinking {
		reply = stripThinking(reply)
	}

	return reply, nil
}

// stripThinking removes a leading <think>...</think> block emitted by local
// reasoning models before the actual reply.
func stripThinking(reply string) string {
	if _, rest, found := strings.Cut(reply, "</think>"); found {
		return rest
	}
	return reply
}
