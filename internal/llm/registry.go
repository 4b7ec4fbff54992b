package llm

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/llmshowdown/connect-arena-backend/internal/apperror"
)

const (
	geminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai"
	deepSeekBaseURL = "https://api.deepseek.com"
	groqBaseURL     = "https://api.groq.com/openai/v1"
)

// Config carries the provider credentials and endpoints needed to construct
// clients. The core treats all of these as opaque.
type Config struct {
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAPIKey    string
	DeepSeekAPIKey  string
	GroqAPIKey      string
	OllamaBaseURL   string
}

type factory func(modelName string, conf Config) completer

type registryEntry struct {
	name  string
	build factory
}

// registry is the static table of supported model identifiers. Order here is
// the order model names are listed in.
var registry = []registryEntry{
	{"claude-opus-4-1-20250805", anthropicFactory},
	{"claude-sonnet-4-5", anthropicFactory},
	{"claude-haiku-4-5", anthropicFactory},
	{"gpt-5", gptFactory},
	{"gpt-5-mini", gptFactory},
	{"gpt-5-nano", gptFactory},
	{"gemini-2.5-flash", geminiFactory},
	{"gemini-2.5-flash-lite", geminiFactory},
	{"gemini-2.5-pro", geminiFactory},
	{"deepseek-chat V3", deepSeekFactory},
	{"deepseek-reasoner R1", deepSeekFactory},
	{"openai/gpt-oss-120b via Groq", groqFactory},
	{"llama3.2 local", ollamaFactory},
	{"gemma2 local", ollamaFactory},
	{"qwen2.5 local", ollamaFactory},
	{"phi4 local", ollamaFactory},
}

func anthropicFactory(modelName string, conf Config) completer {
	return newAnthropicClient(modelName, conf.AnthropicAPIKey)
}

func gptFactory(modelName string, conf Config) completer {
	client := newOpenAIClient(modelName, openAIBaseURL, conf.OpenAIAPIKey)
	// the gpt-5 family rejects sampling parameters; reasoning effort replaces them
	client.reasoningEffort = "low"
	return client
}

func geminiFactory(modelName string, conf Config) completer {
	return newOpenAIClient(modelName, geminiBaseURL, conf.GoogleAPIKey)
}

func deepSeekFactory(modelName string, conf Config) completer {
	return newOpenAIClient(modelName, deepSeekBaseURL, conf.DeepSeekAPIKey)
}

func groqFactory(modelName string, conf Config) completer {
	return newOpenAIClient(modelName, groqBaseURL, conf.GroqAPIKey)
}

func ollamaFactory(modelName string, conf Config) completer {
	client := newOpenAIClient(modelName, conf.OllamaBaseURL, "ollama")
	client.stripThinking = true
	return client
}

// Create returns a retrying client for the given model identifier, or
// ErrUnsupportedModel if the identifier is not in the registry.
func Create(logger *slog.Logger, modelName string, conf Config) (Client, error) {
	for _, entry := range registry {
		if entry.name == modelName {
			return newRetryClient(logger, modelName, entry.build(modelName, conf)), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperror.ErrUnsupportedModel, modelName)
}

// SupportedModelNames returns every model identifier in the registry.
func SupportedModelNames() []string {
	names := make([]string, 0, len(registry))
	for _, entry := range registry {
		names = append(names, entry.name)
	}
	return names
}

// AllModelNames returns the registry identifiers restricted to the given
// allow-list; a nil or empty allow-list means no restriction.
func AllModelNames(allowed []string) []string {
	supported := SupportedModelNames()
	if len(allowed) == 0 {
		return supported
	}

	var names []string
	for _, name := range allowed {
		if slices.Contains(supported, name) {
			names = append(names, name)
		}
	}
	return names
}
