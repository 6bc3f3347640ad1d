package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// Game is a live session: one board plus the bookkeeping a client needs to render it.
type Game struct {
	ID        string
	State     GameState
	Fresh     bool
	UpdatedAt time.Time
}

func NewSession(id string) *Game {
	return &Game{
		ID:        id,
		State:     NewGame(),
		Fresh:     true,
		UpdatedAt: time.Now().UTC(),
	}
}

// Reset puts the session back on an empty board, keeping its id.
func (that *Game) Reset() {
	that.State = NewGame()
	that.Fresh = true
	that.UpdatedAt = time.Now().UTC()
}

// Claim places the mark of the side to move on cell.
func (that *Game) Claim(cell int) error {
	next, err := that.State.Play(cell)
	if err != nil {
		return fmt.Errorf("failed to claim cell: %w", err)
	}

	that.State = next
	that.Fresh = false
	that.UpdatedAt = time.Now().UTC()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.State.Outcome().IsFinished()
}

func (that *Game) IsOngoing() bool {
	return !that.IsFinished()
}

type gameJSON struct {
	ID        string          `json:"id"`
	Board     [BoardSize]Mark `json:"board"`
	Turn      Mark            `json:"turn"`
	Outcome   Outcome         `json:"outcome"`
	Winner    Mark            `json:"winner"`
	Fresh     bool            `json:"fresh"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (that *Game) MarshalJSON() ([]byte, error) {
	outcome := that.State.Outcome()
	winner, _ := outcome.Winner()

	data, err := json.Marshal(gameJSON{
		ID:        that.ID,
		Board:     that.State.Cells(),
		Turn:      that.State.ToMove(),
		Outcome:   outcome,
		Winner:    winner,
		Fresh:     that.Fresh,
		UpdatedAt: that.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game: %w", err)
	}

	return data, nil
}

func (that *Game) UnmarshalJSON(data []byte) error {
	var raw gameJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal game: %w", err)
	}

	that.ID = raw.ID
	that.State = NewGameState(raw.Board, raw.Turn)
	that.Fresh = raw.Fresh
	that.UpdatedAt = raw.UpdatedAt

	return nil
}
