package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) (int, error)
}

// GameManager runs sessions against the engine: the client claims cells, the engine answers.
type GameManager struct {
	logger *slog.Logger

	gameRepo gameRepo
	bot      botService

	// serialises read-modify-write of stored sessions
	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, bot botService) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		bot:      bot,
	}
}

func (that *GameManager) NewGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewSession(uuid.NewString())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

// MakeTurn claims cell for the side to move and lets the engine reply while the game is still ongoing.
// An illegal cell leaves the stored game untouched and is reported as ErrIllegalMove.
func (that *GameManager) MakeTurn(ctx context.Context, id string, cell int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if err = game.Claim(cell); err != nil {
		return game, fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	if game.IsOngoing() {
		if _, err = that.bot.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("failed to make bot turn: %w", err)
		}
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		log.Info("game finished", "outcome", game.State.Outcome().String())
	}

	return game, nil
}

// EngineFirst lets the engine open a game nobody has moved in yet.
func (that *GameManager) EngineFirst(ctx context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if !game.Fresh {
		return game, apperror.ErrGameAlreadyStarted
	}

	if _, err = that.bot.MakeTurn(game); err != nil {
		return nil, fmt.Errorf("failed to make bot turn: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

func (that *GameManager) Reset(ctx context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game.Reset()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Info("game reset", "gameID", id)

	return game, nil
}

// Analyze scores every legal move of the stored board for the side to move.
func (that *GameManager) Analyze(ctx context.Context, id string) ([]tictactoe.MoveScore, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if game.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	return tictactoe.Analyze(game.State), nil
}
