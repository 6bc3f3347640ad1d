package websocket

import (
	"context"
	"errors"
	"fmt"
)

var (
	errGameIDRequired = errors.New("game_id is required")
	errCellRequired   = errors.New("cell is required")
)

func (that *Server) handleNewGame(ctx context.Context, _ *Request) (*Payload, error) {
	game, err := that.games.NewGame(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return &Payload{Game: game}, nil
}

func (that *Server) handleGetGame(ctx context.Context, req *Request) (*Payload, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	game, err := that.games.GetGame(ctx, req.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &Payload{Game: game}, nil
}

func (that *Server) handleGameTurn(ctx context.Context, req *Request) (*Payload, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	if req.Cell == nil {
		return nil, errCellRequired
	}

	game, err := that.games.MakeTurn(ctx, req.GameID, *req.Cell)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	return &Payload{Game: game}, nil
}

func (that *Server) handleEngineFirst(ctx context.Context, req *Request) (*Payload, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	game, err := that.games.EngineFirst(ctx, req.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to let engine go first: %w", err)
	}

	return &Payload{Game: game}, nil
}

func (that *Server) handleReset(ctx context.Context, req *Request) (*Payload, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	game, err := that.games.Reset(ctx, req.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	return &Payload{Game: game}, nil
}

func (that *Server) handleAnalysis(ctx context.Context, req *Request) (*Payload, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	moves, err := that.games.Analyze(ctx, req.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze game: %w", err)
	}

	return &Payload{Moves: moves}, nil
}
