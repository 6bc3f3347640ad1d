package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/apperror"
)

// BoardSize - number of cells on the 3x3 board, row-major.
const BoardSize = 9

// Mark is the content of a cell and also names the side to move.
type Mark uint8

const (
	Empty Mark = iota
	PlayerX
	PlayerO
)

// WinCombos - the eight lines that end the game when one mark fills them.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Opponent returns the other player. Empty has no opponent and is returned as is.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

func (that Mark) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return ""
	}
}

func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X":
		*that = PlayerX
	case "O":
		*that = PlayerO
	case "":
		*that = Empty
	default:
		return fmt.Errorf("unknown mark %q", text)
	}

	return nil
}

// GameState is an immutable board snapshot. Every transition returns a new value.
type GameState struct {
	cells  [BoardSize]Mark
	toMove Mark
}

// NewGame returns an empty board with X to move.
func NewGame() GameState {
	return GameState{toMove: PlayerX}
}

// NewGameState builds an arbitrary position. The position does not have to be reachable in play.
func NewGameState(cells [BoardSize]Mark, toMove Mark) GameState {
	if toMove != PlayerO {
		toMove = PlayerX
	}

	return GameState{cells: cells, toMove: toMove}
}

func (that GameState) Cells() [BoardSize]Mark {
	return that.cells
}

// Cell returns Empty for indexes outside the board.
func (that GameState) Cell(position int) Mark {
	if position < 0 || position >= BoardSize {
		return Empty
	}

	return that.cells[position]
}

func (that GameState) ToMove() Mark {
	return that.toMove
}

// MoveCount - number of occupied cells.
func (that GameState) MoveCount() int {
	count := 0
	for _, cell := range that.cells {
		if cell != Empty {
			count++
		}
	}

	return count
}

// LegalMoves returns every legal position in increasing order.
func (that GameState) LegalMoves() []int {
	moves := make([]int, 0, BoardSize)
	for position := 0; position < BoardSize; position++ {
		if that.IsLegalMove(position) {
			moves = append(moves, position)
		}
	}

	return moves
}

// IsLegalMove never fails: out of range positions, finished games and occupied cells are just false.
func (that GameState) IsLegalMove(position int) bool {
	if that.Outcome() != OutcomeOngoing {
		return false
	}

	if position < 0 || position >= BoardSize {
		return false
	}

	return that.cells[position] == Empty
}

// ApplyMove returns the state after position is claimed by the side to move.
// An illegal position yields an unchanged copy.
func (that GameState) ApplyMove(position int) GameState {
	next := that

	if !that.IsLegalMove(position) {
		return next
	}

	next.cells[position] = that.toMove
	next.toMove = that.toMove.Opponent()

	return next
}

// Play is ApplyMove with the rejection reason reported instead of swallowed.
func (that GameState) Play(position int) (GameState, error) {
	if position < 0 || position >= BoardSize {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, position)
	}

	if that.Outcome() != OutcomeOngoing {
		return that, apperror.ErrGameFinished
	}

	if that.cells[position] != Empty {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, position)
	}

	return that.ApplyMove(position), nil
}

func (that GameState) IsBoardFull() bool {
	for _, cell := range that.cells {
		if cell == Empty {
			return false
		}
	}

	return true
}

func (that GameState) IsWinner(player Mark) bool {
	for _, combo := range WinCombos {
		if that.cells[combo[0]] == player && that.cells[combo[1]] == player && that.cells[combo[2]] == player {
			return true
		}
	}

	return false
}

// Outcome checks X before O before a full board, so even unreachable boards classify deterministically.
func (that GameState) Outcome() Outcome {
	switch {
	case that.IsWinner(PlayerX):
		return OutcomeWonByX
	case that.IsWinner(PlayerO):
		return OutcomeWonByO
	case that.IsBoardFull():
		return OutcomeTie
	default:
		return OutcomeOngoing
	}
}

type gameStateJSON struct {
	Board   [BoardSize]Mark `json:"board"`
	Turn    Mark            `json:"turn"`
	Outcome Outcome         `json:"outcome"`
	Winner  Mark            `json:"winner"`
}

func (that GameState) MarshalJSON() ([]byte, error) {
	outcome := that.Outcome()
	winner, _ := outcome.Winner()

	data, err := json.Marshal(gameStateJSON{
		Board:   that.cells,
		Turn:    that.toMove,
		Outcome: outcome,
		Winner:  winner,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game state: %w", err)
	}

	return data, nil
}

// UnmarshalJSON restores board and turn. Outcome and winner are derived, so they are ignored.
func (that *GameState) UnmarshalJSON(data []byte) error {
	var raw gameStateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	*that = NewGameState(raw.Board, raw.Turn)

	return nil
}
