package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/service"
)

var errRedisDown = errors.New("redis down")

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func newTestManager(t *testing.T) (*GameManager, repository.GameRepository) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	gameRepo := repository.NewMemoryGameRepository()

	return NewGameManager(logger, gameRepo, service.NewBotService(logger)), gameRepo
}

func TestGameManager_NewGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates and stores a fresh game", func(t *testing.T) {
		manager, gameRepo := newTestManager(t)

		// When: a new game is requested
		game, err := manager.NewGame(ctx)

		// Then: a fresh session with an id is stored
		require.NoError(t, err)
		assert.NotEmpty(t, game.ID)
		assert.True(t, game.Fresh)

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game.State, stored.State)
	})

	t.Run("Returns error if storage fails", func(t *testing.T) {
		// Given: a repository that cannot store
		gameRepo := &mockGameRepo{}
		gameRepo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()

		logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
		manager := NewGameManager(logger, gameRepo, service.NewBotService(logger))

		// When: a new game is requested
		game, err := manager.NewGame(ctx)

		// Then: the storage error surfaces
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
		gameRepo.AssertExpectations(t)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Human move is answered by the engine", func(t *testing.T) {
		manager, gameRepo := newTestManager(t)
		game, err := manager.NewGame(ctx)
		require.NoError(t, err)

		// When: X claims the centre
		game, err = manager.MakeTurn(ctx, game.ID, 4)

		// Then: the engine has replied as O and X is to move again
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.State.Cell(4))
		assert.Equal(t, 2, game.State.MoveCount())
		assert.Equal(t, entity.PlayerX, game.State.ToMove())
		assert.False(t, game.Fresh)

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game.State, stored.State)
	})

	t.Run("Illegal move leaves the stored game untouched", func(t *testing.T) {
		manager, gameRepo := newTestManager(t)
		game, err := manager.NewGame(ctx)
		require.NoError(t, err)

		game, err = manager.MakeTurn(ctx, game.ID, 4)
		require.NoError(t, err)
		before := game.State

		// When: the occupied centre is claimed again
		_, err = manager.MakeTurn(ctx, game.ID, 4)

		// Then: the move is rejected as illegal with its cause
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, before, stored.State)
	})

	t.Run("Out of range cell is illegal", func(t *testing.T) {
		manager, _ := newTestManager(t)
		game, err := manager.NewGame(ctx)
		require.NoError(t, err)

		_, err = manager.MakeTurn(ctx, game.ID, 9)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Engine never loses and finished games reject moves", func(t *testing.T) {
		manager, _ := newTestManager(t)
		game, err := manager.NewGame(ctx)
		require.NoError(t, err)

		// When: the human always takes the lowest free cell
		for game.IsOngoing() {
			game, err = manager.MakeTurn(ctx, game.ID, game.State.LegalMoves()[0])
			require.NoError(t, err)
		}

		// Then: the human (X) did not win
		winner, won := game.State.Outcome().Winner()
		if won {
			assert.Equal(t, entity.PlayerO, winner)
		}

		_, err = manager.MakeTurn(ctx, game.ID, 0)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Unknown game", func(t *testing.T) {
		manager, _ := newTestManager(t)

		_, err := manager.MakeTurn(ctx, "missing", 0)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Returns error if update fails", func(t *testing.T) {
		// Given: a repository that reads but cannot write
		gameRepo := &mockGameRepo{}
		gameRepo.On("GetByID", mock.Anything, "123").Return(entity.NewSession("123"), nil).Once()
		gameRepo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()

		logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
		manager := NewGameManager(logger, gameRepo, service.NewBotService(logger))

		// When: a move is made
		_, err := manager.MakeTurn(ctx, "123", 0)

		// Then: the storage error surfaces
		require.ErrorIs(t, err, errRedisDown)
		gameRepo.AssertExpectations(t)
	})
}

func TestGameManager_EngineFirst(t *testing.T) {
	ctx := context.Background()

	t.Run("Engine opens a fresh game", func(t *testing.T) {
		manager, _ := newTestManager(t)
		game, err := manager.NewGame(ctx)
		require.NoError(t, err)

		// When: the engine is asked to go first
		game, err = manager.EngineFirst(ctx, game.ID)

		// Then: X is on the pinned opening cell and O (the human) is to move
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.State.Cell(8))
		assert.Equal(t, entity.PlayerO, game.State.ToMove())
		assert.False(t, game.Fresh)
	})

	t.Run("Rejected once the game started", func(t *testing.T) {
		manager, _ := newTestManager(t)
		game, err := manager.NewGame(ctx)
		require.NoError(t, err)

		_, err = manager.MakeTurn(ctx, game.ID, 0)
		require.NoError(t, err)

		// When: the engine is asked to go first after moves were made
		_, err = manager.EngineFirst(ctx, game.ID)

		// Then: ErrGameAlreadyStarted is returned
		require.ErrorIs(t, err, apperror.ErrGameAlreadyStarted)
	})
}

func TestGameManager_Reset(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	// Given: a game with moves
	game, err := manager.NewGame(ctx)
	require.NoError(t, err)
	_, err = manager.MakeTurn(ctx, game.ID, 0)
	require.NoError(t, err)

	// When: the game is reset
	reset, err := manager.Reset(ctx, game.ID)

	// Then: it is fresh again under the same id
	require.NoError(t, err)
	assert.Equal(t, game.ID, reset.ID)
	assert.True(t, reset.Fresh)
	assert.Equal(t, entity.NewGame(), reset.State)

	// And: the engine may open again
	_, err = manager.EngineFirst(ctx, game.ID)
	require.NoError(t, err)
}

func TestGameManager_DeleteGame(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	game, err := manager.NewGame(ctx)
	require.NoError(t, err)

	require.NoError(t, manager.DeleteGame(ctx, game.ID))

	_, err = manager.GetGame(ctx, game.ID)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)

	err = manager.DeleteGame(ctx, game.ID)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)
}

func TestGameManager_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("Scores the legal moves", func(t *testing.T) {
		manager, _ := newTestManager(t)
		game, err := manager.NewGame(ctx)
		require.NoError(t, err)

		scores, err := manager.Analyze(ctx, game.ID)

		require.NoError(t, err)
		assert.Len(t, scores, entity.BoardSize)
	})

	t.Run("Finished game", func(t *testing.T) {
		// Given: a stored game X already won
		manager, gameRepo := newTestManager(t)
		game := entity.NewSession("won")
		game.State = entity.NewGameState([entity.BoardSize]entity.Mark{
			entity.PlayerX, entity.PlayerX, entity.PlayerX,
			entity.PlayerO, entity.PlayerO, entity.Empty,
			entity.Empty, entity.Empty, entity.Empty,
		}, entity.PlayerO)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: it is analysed
		_, err := manager.Analyze(ctx, game.ID)

		// Then: ErrGameFinished is returned
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}
