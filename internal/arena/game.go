package arena

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/llmshowdown/connect-arena-backend/internal/entity"
	"github.com/llmshowdown/connect-arena-backend/internal/llm"
)

// Snapshot is one observed board state during a running game.
type Snapshot struct {
	Board  *entity.Board
	Status string
}

// Thoughts is the rationale a player gave for its most recent successful
// move. Display-only; it never participates in move validity.
type Thoughts struct {
	Evaluation    string `json:"evaluation"`
	Threats       string `json:"threats"`
	Opportunities string `json:"opportunities"`
	Strategy      string `json:"strategy"`
}

// Game owns one board and the two players moving on it. A single game is
// driven by one logical thread of control; players never move concurrently.
type Game struct {
	Board   *entity.Board
	players map[string]*Player
}

// NewGame creates a game with a fresh board and two players bound to the
// given model identifiers.
func NewGame(logger *slog.Logger, redModel, yellowModel string, conf llm.Config) (*Game, error) {
	red, err := NewPlayer(logger, redModel, entity.PlayerRed, conf)
	if err != nil {
		return nil, fmt.Errorf("could not create game: %w", err)
	}

	yellow, err := NewPlayer(logger, yellowModel, entity.PlayerYellow, conf)
	if err != nil {
		return nil, fmt.Errorf("could not create game: %w", err)
	}

	return &Game{
		Board: entity.NewBoard(),
		players: map[string]*Player{
			entity.PlayerRed:    red,
			entity.PlayerYellow: yellow,
		},
	}, nil
}

// Move delegates the next half-move to the player whose color is to play.
// Calling on a terminal board is a caller error and does nothing.
func (that *Game) Move(ctx context.Context) {
	if !that.IsActive() {
		return
	}
	that.players[that.Board.Turn].Move(ctx, that.Board)
}

// IsActive reports whether the game has not yet ended.
func (that *Game) IsActive() bool {
	return that.Board.IsActive()
}

// Reset replaces the board with a fresh one; players and their bound models
// are kept.
func (that *Game) Reset() {
	that.Board = entity.NewBoard()
}

// Player returns the player bound to the given color.
func (that *Game) Player(color string) *Player {
	return that.players[color]
}

// Thoughts returns the inner thoughts of the given color's player.
func (that *Game) Thoughts(color string) Thoughts {
	player := that.players[color]
	return Thoughts{
		Evaluation:    player.Evaluation,
		Threats:       player.Threats,
		Opportunities: player.Opportunities,
		Strategy:      player.Strategy,
	}
}

// Run plays the game to completion, lazily yielding a snapshot after each
// half-move plus a final one. The caller stops the game by ceasing to pull.
func (that *Game) Run(ctx context.Context) iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		for that.IsActive() {
			that.Move(ctx)
			if !yield(that.snapshot()) {
				return
			}
		}
		yield(that.snapshot())
	}
}

// Result composes the record of a finished game.
func (that *Game) Result() *entity.Result {
	return &entity.Result{
		RedAgent:    that.players[entity.PlayerRed].Model,
		YellowAgent: that.players[entity.PlayerYellow].Model,
		RedWon:      that.Board.Winner == entity.PlayerRed,
		YellowWon:   that.Board.Winner == entity.PlayerYellow,
		When:        time.Now().UTC(),
	}
}

func (that *Game) snapshot() Snapshot {
	return Snapshot{
		Board:  that.Board.Clone(),
		Status: that.Board.Message(),
	}
}
