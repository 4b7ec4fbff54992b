package entity

import (
	"fmt"
	"strings"

	"github.com/llmshowdown/connect-arena-backend/internal/apperror"
)

const (
	BoardRows    = 6
	BoardColumns = 7

	EmptyCell    = ""
	PlayerRed    = "red"
	PlayerYellow = "yellow"

	// ColumnNames holds the column letters in board order, left to right.
	ColumnNames = "ABCDEFG"
)

// winDirections covers all four orientations; scanning every cell means
// each line is visited from both ends, so the mirrored vectors are redundant.
var winDirections = [4][2]int{
	{0, 1},  // vertical
	{1, 1},  // diagonal up-right
	{1, 0},  // horizontal
	{1, -1}, // diagonal down-right
}

var gridSymbols = map[string]string{
	EmptyCell:    "_",
	PlayerRed:    "R",
	PlayerYellow: "Y",
}

// Board is the state machine for one match. Row 0 is the bottom of the board;
// pieces stack upwards. Once Winner or Draw is set the board is terminal and
// no further moves are accepted.
type Board struct {
	Cells      [BoardRows][BoardColumns]string `json:"cells"`
	Turn       string                          `json:"turn"`
	Winner     string                          `json:"winner"`
	Draw       bool                            `json:"draw"`
	Forfeit    bool                            `json:"forfeit"`
	LastColumn int                             `json:"last_column"`
	LastRow    int                             `json:"last_row"`
}

// NewBoard returns an empty board with red to move.
func NewBoard() *Board {
	return &Board{
		Turn:       PlayerRed,
		LastColumn: -1,
		LastRow:    -1,
	}
}

// Opponent returns the other color.
func Opponent(color string) string {
	if color == PlayerRed {
		return PlayerYellow
	}
	return PlayerRed
}

// Height returns the number of occupied cells in the given column.
func (that *Board) Height(column int) int {
	height := 0
	for height < BoardRows && that.Cells[height][column] != EmptyCell {
		height++
	}
	return height
}

// LegalColumns returns the letters of columns that are not full, in A..G order.
func (that *Board) LegalColumns() []string {
	var columns []string
	for x := 0; x < BoardColumns; x++ {
		if that.Height(x) < BoardRows {
			columns = append(columns, string(ColumnNames[x]))
		}
	}
	return columns
}

// IllegalColumns returns the letters of columns that are full, in A..G order.
func (that *Board) IllegalColumns() []string {
	var columns []string
	for x := 0; x < BoardColumns; x++ {
		if that.Height(x) == BoardRows {
			columns = append(columns, string(ColumnNames[x]))
		}
	}
	return columns
}

// ApplyMove drops the current player's piece into the given column. Callers
// are expected to validate the move first; an illegal call is an error, not
// a forfeit.
func (that *Board) ApplyMove(column int) error {
	if !that.IsActive() {
		return apperror.ErrGameFinished
	}

	if column < 0 || column >= BoardColumns {
		return fmt.Errorf("%w: index %d", apperror.ErrUnknownColumn, column)
	}

	row := that.Height(column)
	if row == BoardRows {
		return fmt.Errorf("%w: %s", apperror.ErrColumnFull, string(ColumnNames[column]))
	}

	that.Cells[row][column] = that.Turn
	that.LastColumn, that.LastRow = column, row

	switch winner := that.findWinner(); {
	case winner != EmptyCell:
		that.Winner = winner
	case len(that.LegalColumns()) == 0:
		that.Draw = true
	default:
		that.Turn = Opponent(that.Turn)
	}

	return nil
}

// ForfeitGame ends the game immediately with a win for the opponent of the
// player whose turn it is. Used when a player's decision was invalid.
func (that *Board) ForfeitGame() {
	that.Forfeit = true
	that.Winner = Opponent(that.Turn)
}

// IsActive reports whether the game has not yet ended.
func (that *Board) IsActive() bool {
	return that.Winner == EmptyCell && !that.Draw
}

// winningLine returns the color at (x, y) if it starts a run of four in the
// direction (dx, dy), or EmptyCell otherwise.
func (that *Board) winningLine(x, y, dx, dy int) string {
	color := that.Cells[y][x]
	for step := 1; step < 4; step++ {
		xp := x + dx*step
		yp := y + dy*step
		if xp < 0 || xp >= BoardColumns || yp < 0 || yp >= BoardRows {
			return EmptyCell
		}
		if that.Cells[yp][xp] != color {
			return EmptyCell
		}
	}
	return color
}

// findWinner scans the whole grid for a four-in-a-row of either color.
// Correctness only depends on the final cell contents, not on move order.
func (that *Board) findWinner() string {
	for y := 0; y < BoardRows; y++ {
		for x := 0; x < BoardColumns; x++ {
			if that.Cells[y][x] == EmptyCell {
				continue
			}
			for _, dir := range winDirections {
				if winner := that.winningLine(x, y, dir[0], dir[1]); winner != EmptyCell {
					return winner
				}
			}
		}
	}
	return EmptyCell
}

// Message returns a one-line summary of the board status.
func (that *Board) Message() string {
	switch {
	case that.Winner != EmptyCell && that.Forfeit:
		return fmt.Sprintf("%s wins after an illegal move by %s", that.Winner, Opponent(that.Winner))
	case that.Winner != EmptyCell:
		return fmt.Sprintf("%s wins", that.Winner)
	case that.Draw:
		return "the game is a draw"
	default:
		return fmt.Sprintf("%s to play", that.Turn)
	}
}

// JSON returns the structured grid representation used in agent prompts:
// the column names followed by the six rows, highest row first.
func (that *Board) JSON() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	sb.WriteString(`    "Column names": ["A", "B", "C", "D", "E", "F", "G"],` + "\n")
	for y := BoardRows - 1; y >= 0; y-- {
		cells := make([]string, BoardColumns)
		for x := 0; x < BoardColumns; x++ {
			cells[x] = fmt.Sprintf("%q", that.Cells[y][x])
		}
		sb.WriteString(fmt.Sprintf(`    "Row %d": [%s]`, y+1, strings.Join(cells, ", ")))
		if y > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// Grid returns a compact single-character-per-cell view of the board with
// column headers, used as an alternate representation in agent prompts.
func (that *Board) Grid() string {
	var sb strings.Builder
	sb.WriteString(" A B C D E F G\n")
	for y := BoardRows - 1; y >= 0; y-- {
		for x := 0; x < BoardColumns; x++ {
			sb.WriteString(" " + gridSymbols[that.Cells[y][x]])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (that *Board) String() string {
	return that.Grid() + "\n" + that.Message()
}

// Clone returns an independent copy of the board.
func (that *Board) Clone() *Board {
	copied := *that
	return &copied
}
