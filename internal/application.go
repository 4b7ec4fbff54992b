package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/llmshowdown/connect-arena-backend/internal/config"
	"github.com/llmshowdown/connect-arena-backend/internal/llm"
	"github.com/llmshowdown/connect-arena-backend/internal/repository"
	"github.com/llmshowdown/connect-arena-backend/internal/repository/storage"
	"github.com/llmshowdown/connect-arena-backend/internal/usecase"
	"github.com/llmshowdown/connect-arena-backend/transport/rest"
)

// RunApp - wires the dependencies and runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	// the store is optional: without it games still run, they are just not recorded
	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		log.Warn("result store unavailable, games will not be recorded", "error", err)
	} else {
		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()
	}

	resultRepo := repository.NewResultRepository(logger, redisStorage)

	llmConf := llm.Config{
		OpenAIAPIKey:    conf.LLM.OpenAIAPIKey,
		AnthropicAPIKey: conf.LLM.AnthropicAPIKey,
		GoogleAPIKey:    conf.LLM.GoogleAPIKey,
		DeepSeekAPIKey:  conf.LLM.DeepSeekAPIKey,
		GroqAPIKey:      conf.LLM.GroqAPIKey,
		OllamaBaseURL:   conf.LLM.OllamaBaseURL,
	}

	arenaManager := usecase.NewArenaManager(logger, resultRepo, llmConf, conf.Agents.Allowed)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(logger, conf.HTTPPort, arenaManager); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
