package websocket

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/tictactoe"
)

const (
	ActionNewGame  = "game:new"
	ActionGetGame  = "game:get"
	ActionTurn     = "game:turn"
	ActionEngine   = "game:engine"
	ActionReset    = "game:reset"
	ActionAnalysis = "game:analysis"
	ActionError    = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Request is what the client may put in a payload. Which fields matter depends on the action.
type Request struct {
	GameID string `mapstructure:"game_id"`
	Cell   *int   `mapstructure:"cell"`
}

type Response struct {
	Action  string   `json:"action"`
	Payload *Payload `json:"payload"`
}

type Payload struct {
	Game  *entity.Game          `json:"game,omitempty"`
	Moves []tictactoe.MoveScore `json:"moves,omitempty"`
	Error string                `json:"error,omitempty"`
}

func decodeRequest(payload map[string]any) (*Request, error) {
	var req Request

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err = decoder.Decode(payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	return &req, nil
}
