package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestBotService_MakeTurn(t *testing.T) {
	t.Run("Bot opens a fresh game", func(t *testing.T) {
		// Given: a fresh session
		bot := NewBotService(newTestLogger())
		game := entity.NewSession("123")

		// When: the bot makes a turn
		cell, err := bot.MakeTurn(game)

		// Then: X is placed on the pinned opening cell and O is to move
		require.NoError(t, err)
		assert.Equal(t, 8, cell)
		assert.Equal(t, entity.PlayerX, game.State.Cell(8))
		assert.Equal(t, entity.PlayerO, game.State.ToMove())
		assert.False(t, game.Fresh)
	})

	t.Run("Bot plays for O when O is to move", func(t *testing.T) {
		// Given: X threatens the top row
		bot := NewBotService(newTestLogger())
		game := entity.NewSession("123")
		game.State = entity.NewGameState([entity.BoardSize]entity.Mark{
			entity.PlayerX, entity.PlayerX, entity.Empty,
			entity.Empty, entity.PlayerO, entity.Empty,
			entity.Empty, entity.Empty, entity.Empty,
		}, entity.PlayerO)

		// When: the bot makes a turn
		cell, err := bot.MakeTurn(game)

		// Then: O blocks
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
		assert.Equal(t, entity.PlayerO, game.State.Cell(2))
	})

	t.Run("Bot refuses a finished game", func(t *testing.T) {
		// Given: a session X already won
		bot := NewBotService(newTestLogger())
		game := entity.NewSession("123")
		game.State = entity.NewGameState([entity.BoardSize]entity.Mark{
			entity.PlayerX, entity.PlayerX, entity.PlayerX,
			entity.PlayerO, entity.PlayerO, entity.Empty,
			entity.Empty, entity.Empty, entity.Empty,
		}, entity.PlayerO)
		before := game.State

		// When: the bot is asked to move
		_, err := bot.MakeTurn(game)

		// Then: the game finished error surfaces and the board is untouched
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, before, game.State)
	})
}
