package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/tictactoe"
)

type gameUseCase interface {
	NewGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error

	MakeTurn(ctx context.Context, id string, cell int) (*entity.Game, error)
	EngineFirst(ctx context.Context, id string) (*entity.Game, error)
	Reset(ctx context.Context, id string) (*entity.Game, error)
	Analyze(ctx context.Context, id string) ([]tictactoe.MoveScore, error)
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type analysisResponse struct {
	Moves []tictactoe.MoveScore `json:"moves"`
}

type GameHandler struct {
	logger *slog.Logger
	games  gameUseCase
}

func NewGameHandler(logger *slog.Logger, games gameUseCase) *GameHandler {
	return &GameHandler{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

func (that *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.NewGame(r.Context())
	if err != nil {
		that.writeError(w, "NewGame", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "GetGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, "DeleteGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *GameHandler) MakeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	game, err := that.games.MakeTurn(r.Context(), r.PathValue("id"), *req.Cell)
	if err != nil {
		that.writeError(w, "MakeTurn", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *GameHandler) EngineFirst(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.EngineFirst(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "EngineFirst", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "Reset", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *GameHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	moves, err := that.games.Analyze(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "Analyze", err)
		return
	}

	that.writeJSON(w, http.StatusOK, analysisResponse{Moves: moves})
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrIllegalMove),
		errors.Is(err, apperror.ErrGameAlreadyStarted),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *GameHandler) writeError(w http.ResponseWriter, method string, err error) {
	status := StatusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		message = http.StatusText(status)
	}

	that.writeJSON(w, status, errorResponse{Error: message})
}

func (that *GameHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
