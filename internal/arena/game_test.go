package arena

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmshowdown/connect-arena-backend/internal/entity"
)

func newTestGame(redReplies, yellowReplies []string) (*Game, *Player, *Player) {
	red := newTestPlayer(entity.PlayerRed, &scriptedClient{replies: redReplies})
	yellow := newTestPlayer(entity.PlayerYellow, &scriptedClient{replies: yellowReplies})

	game := &Game{
		Board: entity.NewBoard(),
		players: map[string]*Player{
			entity.PlayerRed:    red,
			entity.PlayerYellow: yellow,
		},
	}
	return game, red, yellow
}

func TestGame_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays to a win and yields one snapshot per half-move plus a final one", func(t *testing.T) {
		// Given: red stacks column A while yellow stacks column B
		game, _, _ := newTestGame(
			[]string{`{"move_column": "A"}`},
			[]string{`{"move_column": "B"}`},
		)

		// When: running the game to completion
		var snapshots []Snapshot
		for snapshot := range game.Run(ctx) {
			snapshots = append(snapshots, snapshot)
		}

		// Then: red wins with a vertical four after seven half-moves
		assert.False(t, game.IsActive())
		assert.Equal(t, entity.PlayerRed, game.Board.Winner)
		assert.False(t, game.Board.Forfeit)

		// And: seven move snapshots plus the terminal one were observed
		require.Len(t, snapshots, 8)
		assert.Equal(t, "yellow to play", snapshots[0].Status)
		assert.Equal(t, "red wins", snapshots[len(snapshots)-1].Status)
	})

	t.Run("Snapshots are clones, not views of the live board", func(t *testing.T) {
		game, _, _ := newTestGame(
			[]string{`{"move_column": "A"}`},
			[]string{`{"move_column": "B"}`},
		)

		var first Snapshot
		for snapshot := range game.Run(ctx) {
			first = snapshot
			break
		}

		assert.Equal(t, 1, first.Board.Height(0))
		assert.NotSame(t, game.Board, first.Board)
	})

	t.Run("Stops early when the caller stops pulling", func(t *testing.T) {
		game, _, _ := newTestGame(
			[]string{`{"move_column": "A"}`},
			[]string{`{"move_column": "B"}`},
		)

		pulled := 0
		for range game.Run(ctx) {
			pulled++
			if pulled == 2 {
				break
			}
		}

		// Then: the game is paused mid-flight, still active
		assert.Equal(t, 2, pulled)
		assert.True(t, game.IsActive())
	})
}

func TestGame_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("Delegates to the player whose color is to move", func(t *testing.T) {
		game, red, yellow := newTestGame(
			[]string{`{"move_column": "C", "strategy": "red plan"}`},
			[]string{`{"move_column": "D", "strategy": "yellow plan"}`},
		)

		game.Move(ctx)
		game.Move(ctx)

		assert.Equal(t, entity.PlayerRed, game.Board.Cells[0][2])
		assert.Equal(t, entity.PlayerYellow, game.Board.Cells[0][3])
		assert.Equal(t, "red plan", red.Strategy)
		assert.Equal(t, "yellow plan", yellow.Strategy)
	})
}

func TestGame_Thoughts(t *testing.T) {
	ctx := context.Background()

	t.Run("Exposes each player's rationale for presentation", func(t *testing.T) {
		// Given: both players answered with rationale
		game, _, _ := newTestGame(
			[]string{`{"move_column": "C", "evaluation": "open board", "strategy": "take the center"}`},
			[]string{`{"move_column": "D", "threats": "center push", "opportunities": "counter on D"}`},
		)

		// When: one half-move each has been played
		game.Move(ctx)
		game.Move(ctx)

		// Then: the thoughts mirror the most recent successful replies
		red := game.Thoughts(entity.PlayerRed)
		assert.Equal(t, "open board", red.Evaluation)
		assert.Equal(t, "take the center", red.Strategy)

		yellow := game.Thoughts(entity.PlayerYellow)
		assert.Equal(t, "center push", yellow.Threats)
		assert.Equal(t, "counter on D", yellow.Opportunities)
	})

	t.Run("Starts empty before any move", func(t *testing.T) {
		game, _, _ := newTestGame(nil, nil)

		assert.Equal(t, Thoughts{}, game.Thoughts(entity.PlayerRed))
	})
}

func TestGame_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("Reset replaces the board and keeps the players", func(t *testing.T) {
		// Given: a game that has been played to the end
		game, red, yellow := newTestGame(
			[]string{`{"move_column": "A"}`},
			[]string{`{"move_column": "B"}`},
		)
		for range game.Run(ctx) {
		}
		require.False(t, game.IsActive())

		// When: resetting
		game.Reset()

		// Then: the board is fresh but the players are the same instances
		assert.True(t, game.IsActive())
		assert.Equal(t, entity.PlayerRed, game.Board.Turn)
		assert.Equal(t, 0, game.Board.Height(0))
		assert.Same(t, red, game.Player(entity.PlayerRed))
		assert.Same(t, yellow, game.Player(entity.PlayerYellow))

		// And: the game can be run again
		for range game.Run(ctx) {
		}
		assert.Equal(t, entity.PlayerRed, game.Board.Winner)
	})
}

func TestGame_Result(t *testing.T) {
	ctx := context.Background()

	t.Run("Composes the result from the players and the winner", func(t *testing.T) {
		game, _, _ := newTestGame(
			[]string{`{"move_column": "A"}`},
			[]string{`{"move_column": "B"}`},
		)
		for range game.Run(ctx) {
		}

		result := game.Result()

		assert.Equal(t, "scripted", result.RedAgent)
		assert.Equal(t, "scripted", result.YellowAgent)
		assert.True(t, result.RedWon)
		assert.False(t, result.YellowWon)
		assert.False(t, result.When.IsZero())
	})

	t.Run("A forfeit shows up as a win for the opponent", func(t *testing.T) {
		// Given: yellow answers with garbage on its first turn
		game, _, _ := newTestGame(
			[]string{`{"move_column": "A"}`},
			[]string{"no idea"},
		)
		for range game.Run(ctx) {
		}

		result := game.Result()

		assert.True(t, game.Board.Forfeit)
		assert.True(t, result.RedWon)
		assert.False(t, result.YellowWon)
	})

	t.Run("A drawn game records no winner", func(t *testing.T) {
		game, _, _ := newTestGame(nil, nil)
		game.Board.Draw = true

		result := game.Result()

		assert.False(t, result.RedWon)
		assert.False(t, result.YellowWon)
	})
}
