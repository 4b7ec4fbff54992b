package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/llmshowdown/connect-arena-backend/internal/arena"
	"github.com/llmshowdown/connect-arena-backend/internal/entity"
	"github.com/llmshowdown/connect-arena-backend/internal/llm"
	"github.com/llmshowdown/connect-arena-backend/internal/rating"
)

type resultRepo interface {
	RecordGame(ctx context.Context, result *entity.Result) bool
	GetGames(ctx context.Context) []entity.Result
}

// Standing is one leaderboard row.
type Standing struct {
	Model string `json:"model"`
	Score int    `json:"score"`
}

// ArenaManager runs matches between model-backed agents and derives standings
// from the recorded history.
type ArenaManager struct {
	logger        *slog.Logger
	resultRepo    resultRepo
	llmConf       llm.Config
	allowedModels []string
}

func NewArenaManager(logger *slog.Logger, resultRepo resultRepo, llmConf llm.Config, allowedModels []string) *ArenaManager {
	return &ArenaManager{
		logger:        logger.With("component", "arena"),
		resultRepo:    resultRepo,
		llmConf:       llmConf,
		allowedModels: allowedModels,
	}
}

// Models returns the model identifiers that games may be started with.
func (that *ArenaManager) Models() []string {
	return llm.AllModelNames(that.allowedModels)
}

// NewMatch creates a game between the two given models. An unknown model is
// a configuration error and surfaces to the caller.
func (that *ArenaManager) NewMatch(redModel, yellowModel string) (*arena.Game, error) {
	game, err := arena.NewGame(that.logger, redModel, yellowModel, that.llmConf)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return game, nil
}

// RunMatch plays the game to completion and records the outcome. Recording is
// fire-and-forget: a store failure never affects the game result.
func (that *ArenaManager) RunMatch(ctx context.Context, game *arena.Game) *entity.Result {
	for snapshot := range game.Run(ctx) {
		that.logger.Info("board updated", "status", snapshot.Status)
		that.logger.Debug("board state", "board", "\n"+snapshot.Board.Grid())
	}

	result := game.Result()
	if !that.resultRepo.RecordGame(ctx, result) {
		that.logger.Warn("game result was not recorded")
	}

	return result
}

// History returns all recorded games in the order they were played.
func (that *ArenaManager) History(ctx context.Context) []entity.Result {
	return that.resultRepo.GetGames(ctx)
}

// Standings replays the full history into ELO scores, restricted to models
// currently offered by the registry, highest score first.
func (that *ArenaManager) Standings(ctx context.Context) []Standing {
	ratings := rating.ComputeRatings(that.resultRepo.GetGames(ctx), true)

	var standings []Standing
	for _, model := range that.Models() {
		score, ok := ratings[model]
		if !ok {
			continue
		}
		standings = append(standings, Standing{
			Model: model,
			Score: int(math.Round(score)),
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	return standings
}
