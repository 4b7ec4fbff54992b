package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env-default:"info"`
	HTTPPort string `yaml:"http-port" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Agents   Agents `yaml:"agents"`
	LLM      LLM    `yaml:"llm"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// Agents restricts which model identifiers are offered and instantiable.
// An empty list means the full registry.
type Agents struct {
	Allowed []string `yaml:"allowed"`
}

// LLM carries the provider credentials; keys come from the environment only.
type LLM struct {
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GoogleAPIKey    string `env:"GOOGLE_API_KEY"`
	DeepSeekAPIKey  string `env:"DEEPSEEK_API_KEY"`
	GroqAPIKey      string `env:"GROQ_API_KEY"`
	OllamaBaseURL   string `yaml:"ollama-base-url" env-default:"http://localhost:11434/v1"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
