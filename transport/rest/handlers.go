package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/llmshowdown/connect-arena-backend/internal/apperror"
	"github.com/llmshowdown/connect-arena-backend/internal/arena"
	"github.com/llmshowdown/connect-arena-backend/internal/entity"
	"github.com/llmshowdown/connect-arena-backend/internal/usecase"
)

type arenaService interface {
	Models() []string
	NewMatch(redModel, yellowModel string) (*arena.Game, error)
	RunMatch(ctx context.Context, game *arena.Game) *entity.Result
	History(ctx context.Context) []entity.Result
	Standings(ctx context.Context) []usecase.Standing
}

type matchRequest struct {
	Red    string `json:"red"`
	Yellow string `json:"yellow"`
}

type matchResponse struct {
	Message        string         `json:"message"`
	Board          *entity.Board  `json:"board"`
	Result         *entity.Result `json:"result"`
	RedThoughts    arena.Thoughts `json:"red_thoughts"`
	YellowThoughts arena.Thoughts `json:"yellow_thoughts"`
}

type handlers struct {
	logger       *slog.Logger
	arenaService arenaService
}

func newHandlers(logger *slog.Logger, arenaService arenaService) *handlers {
	return &handlers{
		logger:       logger.With("component", "rest"),
		arenaService: arenaService,
	}
}

func (that *handlers) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) modelsHandler(w http.ResponseWriter, _ *http.Request) {
	that.respondJSON(w, that.arenaService.Models())
}

func (that *handlers) gamesHandler(w http.ResponseWriter, r *http.Request) {
	that.respondJSON(w, that.arenaService.History(r.Context()))
}

func (that *handlers) standingsHandler(w http.ResponseWriter, r *http.Request) {
	that.respondJSON(w, that.arenaService.Standings(r.Context()))
}

// matchHandler runs one full match synchronously and returns the final board
// and the recorded result.
func (that *handlers) matchHandler(w http.ResponseWriter, r *http.Request) {
	var request matchRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game, err := that.arenaService.NewMatch(request.Red, request.Yellow)
	if errors.Is(err, apperror.ErrUnsupportedModel) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		that.logger.Error("failed to create match", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	result := that.arenaService.RunMatch(r.Context(), game)

	that.respondJSON(w, matchResponse{
		Message:        game.Board.Message(),
		Board:          game.Board,
		Result:         result,
		RedThoughts:    game.Thoughts(entity.PlayerRed),
		YellowThoughts: game.Thoughts(entity.PlayerYellow),
	})
}

func (that *handlers) respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
