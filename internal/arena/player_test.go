package arena

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmshowdown/connect-arena-backend/internal/apperror"
	"github.com/llmshowdown/connect-arena-backend/internal/entity"
	"github.com/llmshowdown/connect-arena-backend/internal/llm"
)

// scriptedClient replays canned replies and captures the prompts it was sent.
type scriptedClient struct {
	replies []string
	next    int

	lastSystem string
	lastUser   string
}

func (that *scriptedClient) Send(_ context.Context, system, user string, _ int) string {
	that.lastSystem = system
	that.lastUser = user

	reply := that.replies[that.next%len(that.replies)]
	that.next++
	return reply
}

func (that *scriptedClient) ModelName() string {
	return "scripted"
}

func newTestPlayer(color string, client *scriptedClient) *Player {
	return &Player{
		Color:  color,
		Model:  "scripted",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		client: client,
	}
}

func TestPlayer_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies a well-formed reply and keeps the rationale", func(t *testing.T) {
		// Given: an agent that answers with a full structured reply
		client := &scriptedClient{replies: []string{`{
			"evaluation": "even position",
			"threats": "none yet",
			"opportunities": "center control",
			"strategy": "claim the middle",
			"move_column": "d"
		}`}}
		player := newTestPlayer(entity.PlayerRed, client)
		board := entity.NewBoard()

		// When: the player moves
		player.Move(ctx, board)

		// Then: the piece lands in column D (lowercase letters are accepted)
		assert.Equal(t, entity.PlayerRed, board.Cells[0][3])
		assert.Equal(t, entity.PlayerYellow, board.Turn)
		assert.True(t, board.IsActive())

		// And: the rationale is kept for display
		assert.Equal(t, "even position", player.Evaluation)
		assert.Equal(t, "none yet", player.Threats)
		assert.Equal(t, "center control", player.Opportunities)
		assert.Equal(t, "claim the middle", player.Strategy)
	})

	t.Run("Tolerates commentary around the JSON object", func(t *testing.T) {
		client := &scriptedClient{replies: []string{
			"Sure! Here is my move:\n{\"move_column\": \"B\"}\nGood luck!",
		}}
		player := newTestPlayer(entity.PlayerRed, client)
		board := entity.NewBoard()

		player.Move(ctx, board)

		assert.Equal(t, entity.PlayerRed, board.Cells[0][1])
		assert.True(t, board.IsActive())
	})

	t.Run("A bare three-character reply names the column directly", func(t *testing.T) {
		// Given: an agent that skipped the rationale entirely
		client := &scriptedClient{replies: []string{"{C}"}}
		player := newTestPlayer(entity.PlayerRed, client)
		board := entity.NewBoard()

		// When: the player moves
		player.Move(ctx, board)

		// Then: {C} is read as move_column C
		assert.Equal(t, entity.PlayerRed, board.Cells[0][2])
		assert.True(t, board.IsActive())
	})

	t.Run("A missing move_column forfeits to the opponent", func(t *testing.T) {
		client := &scriptedClient{replies: []string{`{"evaluation": "looks fine"}`}}
		player := newTestPlayer(entity.PlayerRed, client)
		board := entity.NewBoard()

		player.Move(ctx, board)

		assert.True(t, board.Forfeit)
		assert.Equal(t, entity.PlayerYellow, board.Winner)
		assert.False(t, board.IsActive())
	})

	t.Run("The degraded empty reply forfeits to the opponent", func(t *testing.T) {
		// Given: the retry layer gave up and returned {}
		client := &scriptedClient{replies: []string{"{}"}}
		player := newTestPlayer(entity.PlayerYellow, client)
		board := entity.NewBoard()
		require.NoError(t, board.ApplyMove(3))
		require.Equal(t, entity.PlayerYellow, board.Turn)

		// When: yellow moves
		player.Move(ctx, board)

		// Then: red wins by forfeit
		assert.True(t, board.Forfeit)
		assert.Equal(t, entity.PlayerRed, board.Winner)
	})

	t.Run("Unparsable text forfeits to the opponent", func(t *testing.T) {
		client := &scriptedClient{replies: []string{"I would like to play column D please"}}
		player := newTestPlayer(entity.PlayerRed, client)
		board := entity.NewBoard()

		player.Move(ctx, board)

		assert.True(t, board.Forfeit)
		assert.Equal(t, entity.PlayerYellow, board.Winner)
	})

	t.Run("An unknown column letter forfeits", func(t *testing.T) {
		client := &scriptedClient{replies: []string{`{"move_column": "Z"}`}}
		player := newTestPlayer(entity.PlayerRed, client)
		board := entity.NewBoard()

		player.Move(ctx, board)

		assert.True(t, board.Forfeit)
		assert.Equal(t, entity.PlayerYellow, board.Winner)
	})

	t.Run("Choosing a full column forfeits", func(t *testing.T) {
		// Given: column A is full
		board := entity.NewBoard()
		for row := 0; row < entity.BoardRows; row++ {
			color := entity.PlayerRed
			if row%2 == 1 {
				color = entity.PlayerYellow
			}
			board.Cells[row][0] = color
		}

		client := &scriptedClient{replies: []string{`{"move_column": "A"}`}}
		player := newTestPlayer(entity.PlayerRed, client)

		// When: the agent insists on A anyway
		player.Move(ctx, board)

		// Then: the move is a forfeit, not a crash
		assert.True(t, board.Forfeit)
		assert.Equal(t, entity.PlayerYellow, board.Winner)
	})

	t.Run("A failed move leaves the previous rationale untouched", func(t *testing.T) {
		client := &scriptedClient{replies: []string{"{}"}}
		player := newTestPlayer(entity.PlayerRed, client)
		player.Strategy = "prior plan"
		board := entity.NewBoard()

		player.Move(ctx, board)

		assert.Equal(t, "prior plan", player.Strategy)
	})

	t.Run("Prompts carry the board views and the legal letters", func(t *testing.T) {
		// Given: a board with column A full
		board := entity.NewBoard()
		for row := 0; row < entity.BoardRows; row++ {
			color := entity.PlayerRed
			if row%2 == 1 {
				color = entity.PlayerYellow
			}
			board.Cells[row][0] = color
		}

		client := &scriptedClient{replies: []string{`{"move_column": "B"}`}}
		player := newTestPlayer(entity.PlayerRed, client)

		// When: the player moves
		player.Move(ctx, board)

		// Then: the system prompt names the legal moves and the color
		assert.Contains(t, client.lastSystem, "B, C, D, E, F, G")
		assert.Contains(t, client.lastSystem, "You are red and your opponent is yellow")

		// And: the user prompt carries both board representations and the ban
		assert.Contains(t, client.lastUser, `"Column names"`)
		assert.Contains(t, client.lastUser, " A B C D E F G")
		assert.Contains(t, client.lastUser, "ILLEGAL: A")
	})
}

func TestPlayer_SwitchModel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Rebinds the player to the new model", func(t *testing.T) {
		// Given: a player bound to one registered model
		player, err := NewPlayer(logger, "gpt-5-mini", entity.PlayerRed, llm.Config{})
		require.NoError(t, err)

		// When: hot-swapping to another registered model
		err = player.SwitchModel("claude-haiku-4-5")

		// Then: the identifier and the underlying client both change
		require.NoError(t, err)
		assert.Equal(t, "claude-haiku-4-5", player.Model)
		assert.Equal(t, "claude-haiku-4-5", player.client.ModelName())
	})

	t.Run("An unknown model fails and keeps the old binding", func(t *testing.T) {
		// Given: a player bound to a registered model
		player, err := NewPlayer(logger, "gpt-5-mini", entity.PlayerRed, llm.Config{})
		require.NoError(t, err)
		previous := player.client

		// When: switching to an identifier outside the registry
		err = player.SwitchModel("not-a-model")

		// Then: setup fails and the old client stays bound
		require.ErrorIs(t, err, apperror.ErrUnsupportedModel)
		assert.Equal(t, "gpt-5-mini", player.Model)
		assert.Same(t, previous, player.client)
	})
}
