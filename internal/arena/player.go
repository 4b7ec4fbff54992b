package arena

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/llmshowdown/connect-arena-backend/internal/apperror"
	"github.com/llmshowdown/connect-arena-backend/internal/entity"
	"github.com/llmshowdown/connect-arena-backend/internal/llm"
)

const moveMaxTokens = 3000

// moveReply is the structured shape agents are instructed to answer with.
// Everything except MoveColumn is display-only rationale.
type moveReply struct {
	Evaluation    string `json:"evaluation"`
	Threats       string `json:"threats"`
	Opportunities string `json:"opportunities"`
	Strategy      string `json:"strategy"`
	MoveColumn    string `json:"move_column"`
}

// Player binds one color to a model-backed agent. It owns the move protocol:
// prompting, parsing the structured reply, validating legality, and turning
// any failure into a forfeit.
type Player struct {
	Color string
	Model string

	// rationale from the most recent successful move, for display only
	Evaluation    string
	Threats       string
	Opportunities string
	Strategy      string

	logger  *slog.Logger
	llmConf llm.Config
	client  llm.Client
}

// NewPlayer creates a player for the given model identifier and color. An
// identifier missing from the registry is a fatal configuration error.
func NewPlayer(logger *slog.Logger, modelName, color string, conf llm.Config) (*Player, error) {
	client, err := llm.Create(logger, modelName, conf)
	if err != nil {
		return nil, fmt.Errorf("could not create %s player: %w", color, err)
	}

	return &Player{
		Color:   color,
		Model:   modelName,
		logger:  logger.With("component", "player", "color", color),
		llmConf: conf,
		client:  client,
	}, nil
}

// SwitchModel rebinds the player to a new model; any agent-side session
// continuity is discarded.
func (that *Player) SwitchModel(modelName string) error {
	client, err := llm.Create(that.logger, modelName, that.llmConf)
	if err != nil {
		return fmt.Errorf("could not switch model: %w", err)
	}

	that.Model = modelName
	that.client = client

	return nil
}

// Move asks the agent for a decision and applies it to the board. An
// unparsable or illegal decision forfeits the game to the opponent.
func (that *Player) Move(ctx context.Context, board *entity.Board) {
	legalMoves := strings.Join(board.LegalColumns(), ", ")

	illegalMoves := ""
	if illegal := board.IllegalColumns(); len(illegal) > 0 {
		illegalMoves = "\nYou must NOT make any of these moves which are ILLEGAL: " + strings.Join(illegal, ", ")
	}

	system := that.systemPrompt(legalMoves, illegalMoves)
	user := that.userPrompt(board, legalMoves, illegalMoves)

	reply := that.client.Send(ctx, system, user, moveMaxTokens)
	that.processReply(reply, board)
}

// processReply interprets the raw reply and makes the move; any failure in
// parsing or validation loses the game for the current player.
func (that *Player) processReply(reply string, board *entity.Board) {
	parsed, column, err := parseReply(reply, board)
	if err != nil {
		that.logger.Error("move forfeited", "model", that.Model, "error", err, "reply", reply)
		board.ForfeitGame()
		return
	}

	if err = board.ApplyMove(column); err != nil {
		that.logger.Error("move forfeited", "model", that.Model, "error", err)
		board.ForfeitGame()
		return
	}

	that.Evaluation = parsed.Evaluation
	that.Threats = parsed.Threats
	that.Opportunities = parsed.Opportunities
	that.Strategy = parsed.Strategy
}

// parseReply extracts the structured object from the raw agent text and
// resolves the chosen column index.
func parseReply(reply string, board *entity.Board) (*moveReply, int, error) {
	left := strings.Index(reply, "{")
	right := strings.LastIndex(reply, "}")
	if left > -1 && right > -1 {
		reply = reply[left : right+1]
	}

	// a bare {X} means the agent skipped the rationale and just picked X
	if len(reply) == 3 && reply[0] == '{' && reply[2] == '}' {
		reply = fmt.Sprintf(`{"move_column": %q}`, reply[1])
	}

	var parsed moveReply
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return nil, 0, fmt.Errorf("could not unmarshal reply: %w", err)
	}

	move := parsed.MoveColumn
	if move == "" {
		move = "missing"
	}
	move = strings.ToUpper(move)

	if len(move) != 1 {
		return nil, 0, fmt.Errorf("%w: %q", apperror.ErrUnknownColumn, move)
	}

	column := strings.Index(entity.ColumnNames, move)
	if column < 0 {
		return nil, 0, fmt.Errorf("%w: %q", apperror.ErrUnknownColumn, move)
	}

	if board.Height(column) == entity.BoardRows {
		return nil, 0, fmt.Errorf("%w: %s", apperror.ErrColumnFull, move)
	}

	return &parsed, column, nil
}

func (that *Player) systemPrompt(legalMoves, illegalMoves string) string {
	return fmt.Sprintf(`You are playing the board game Connect 4.
Players take turns to drop counters into one of 7 columns A, B, C, D, E, F, G.
The winner is the first player to get 4 counters in a row in any direction.
You are %s and your opponent is %s.
You must pick a column for your move. You must pick one of the following legal moves: %s.
You should respond in JSON according to this spec:

{
    "evaluation": "my assessment of the board",
    "threats": "any threats from my opponent that I should block",
    "opportunities": "my best chances to win",
    "strategy": "my thought process",
    "move_column": "one letter from this list of legal moves: %s"
}

You must pick one of these letters for your move_column: %s%s`,
		that.Color, entity.Opponent(that.Color), legalMoves, legalMoves, legalMoves, illegalMoves)
}

func (that *Player) userPrompt(board *entity.Board, legalMoves, illegalMoves string) string {
	return fmt.Sprintf(`It is your turn to make a move as %s.
Here is the current board, with row 1 at the bottom of the board:

%s

Here's another way of looking at the board visually, where R represents a red counter, Y for a yellow counter, and _ represents an empty square.

%s

Your final response should be only in JSON strictly according to this spec:

{
    "evaluation": "my assessment of the board",
    "threats": "any threats from my opponent that I should block",
    "opportunities": "my best chances to win",
    "strategy": "my thought process",
    "move_column": "one of %s which are the legal moves"
}

Now make your decision.
You must pick one of these letters for your move_column: %s%s
`,
		that.Color, board.JSON(), board.Grid(), legalMoves, legalMoves, illegalMoves)
}
