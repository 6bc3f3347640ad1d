package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
)

// lossOffset exceeds the deepest possible ply (9), so terminal scores never collide with
// scores backed up from deeper positions.
const lossOffset = 10

var ErrNoLegalMoves = fmt.Errorf("no legal moves: %w", apperror.ErrGameFinished)

// MoveScore is the negamax value of one legal move, seen from the side to move.
type MoveScore struct {
	Cell  int `json:"cell"`
	Score int `json:"score"`
}

// ChooseMove returns the cell with the best negamax value for the side to move.
// Among equally valued cells the highest index wins.
func ChooseMove(state entity.GameState) (int, error) {
	scores := Analyze(state)
	if len(scores) == 0 {
		return 0, ErrNoLegalMoves
	}

	best := scores[0]
	for _, move := range scores[1:] {
		if move.Score >= best.Score {
			best = move
		}
	}

	return best.Cell, nil
}

// Analyze scores every legal move of state in increasing cell order.
// Finished games have no legal moves and yield nil.
func Analyze(state entity.GameState) []MoveScore {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil
	}

	scores := make([]MoveScore, 0, len(moves))
	for _, cell := range moves {
		scores = append(scores, MoveScore{
			Cell:  cell,
			Score: -score(state.ApplyMove(cell), 1),
		})
	}

	return scores
}

// score is the negamax value of state for its side to move, depth plies below the root.
// A finished game was won by the side that just moved, so it scores depth-lossOffset:
// quicker losses are worse.
func score(state entity.GameState, depth int) int {
	switch state.Outcome() {
	case entity.OutcomeTie:
		return 0
	case entity.OutcomeWonByX, entity.OutcomeWonByO:
		return depth - lossOffset
	}

	best := 0
	found := false

	// the game is ongoing here, so every empty cell is a legal move
	cells := state.Cells()
	for cell := 0; cell < entity.BoardSize; cell++ {
		if cells[cell] != entity.Empty {
			continue
		}

		value := -score(state.ApplyMove(cell), depth+1)
		if !found || value >= best {
			best = value
			found = true
		}
	}

	return best
}
