package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/llmshowdown/connect-arena-backend/internal/entity"
)

const resultsKey = "results"

// ResultRepository is the append-only store of match outcomes. Both
// operations degrade instead of failing: a missing or unreachable backend
// means "record not saved" and "no games recorded", never an error.
type ResultRepository interface {
	RecordGame(ctx context.Context, result *entity.Result) bool
	GetGames(ctx context.Context) []entity.Result
}

type dbResult struct {
	logger *slog.Logger
	client *redis.Client
}

// NewResultRepository wraps a Redis client; a nil client is allowed and makes
// every operation degrade silently.
func NewResultRepository(logger *slog.Logger, client *redis.Client) ResultRepository {
	return &dbResult{
		logger: logger.With("component", "repository"),
		client: client,
	}
}

func (that *dbResult) RecordGame(ctx context.Context, result *entity.Result) bool {
	if that.client == nil {
		return false
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		that.logger.Error("could not marshal result", "error", err)
		return false
	}

	// RPUSH keeps the list in insertion order, which is the replay order
	if err = that.client.RPush(ctx, resultsKey, resultJSON).Err(); err != nil {
		that.logger.Error("failed to record a game", "error", err)
		return false
	}

	return true
}

func (that *dbResult) GetGames(ctx context.Context) []entity.Result {
	if that.client == nil {
		return nil
	}

	rows, err := that.client.LRange(ctx, resultsKey, 0, -1).Result()
	if err != nil {
		that.logger.Error("failed to get games", "error", err)
		return nil
	}

	results := make([]entity.Result, 0, len(rows))
	for _, row := range rows {
		var result entity.Result
		if err = json.Unmarshal([]byte(row), &result); err != nil {
			that.logger.Error("could not unmarshal result, skipping", "error", err)
			continue
		}
		results = append(results, result)
	}

	return results
}
