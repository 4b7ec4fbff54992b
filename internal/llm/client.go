package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

const (
	maxAttempts = 3
	retryDelay  = 2 * time.Second

	// emptyReply is returned once every attempt has failed; the caller treats
	// an empty object as a forfeit-triggering reply, not an error.
	emptyReply = "{}"

	defaultTemperature = 0.5
)

// Client is a handle on one remote decision-making model. Send never returns
// an error: transient failures are retried and a final failure degrades to an
// empty reply.
type Client interface {
	Send(ctx context.Context, system, user string, maxTokens int) string
	ModelName() string
}

// completer is the provider-facing side of a client: one raw attempt against
// the remote API.
type completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// retryClient gives the provider three chances in total, waiting a fixed two
// seconds between attempts, in case of overload errors.
type retryClient struct {
	logger    *slog.Logger
	modelName string
	provider  completer
	delay     time.Duration
}

func newRetryClient(logger *slog.Logger, modelName string, provider completer) *retryClient {
	return &retryClient{
		logger:    logger.With("component", "llm", "model", modelName),
		modelName: modelName,
		provider:  provider,
		delay:     retryDelay,
	}
}

func (that *retryClient) Send(ctx context.Context, system, user string, maxTokens int) string {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		reply, err := that.provider.Complete(ctx, system, user, maxTokens)
		if err == nil {
			return reply
		}

		that.logger.Error("model call failed", "attempt", attempt, "error", err)

		if attempt == maxAttempts {
			break
		}

		that.logger.Warn("waiting and retrying", "delay", that.delay)
		select {
		case <-ctx.Done():
			return emptyReply
		case <-time.After(that.delay):
		}
	}

	return emptyReply
}

func (that *retryClient) ModelName() string {
	return that.modelName
}

// apiModelName strips a display suffix from a model identifier; only the
// part before the first space is sent to the provider.
func apiModelName(modelName string) string {
	if name, _, found := strings.Cut(modelName, " "); found {
		return name
	}
	return modelName
}
