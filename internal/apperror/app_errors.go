package apperror

import "errors"

var (
	ErrGameFinished       = errors.New("game is already finished")
	ErrGameAlreadyStarted = errors.New("game is already started")
	ErrGameNotFound       = errors.New("game not found")
	ErrIllegalMove        = errors.New("illegal move")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrInvalidCell        = errors.New("invalid cell index")
)
