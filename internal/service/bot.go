package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/tictactoe"
)

type BotService interface {
	MakeTurn(game *entity.Game) (int, error)
}

type botService struct {
	logger *slog.Logger
}

func NewBotService(logger *slog.Logger) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
	}
}

// MakeTurn plays the negamax choice for whichever side is to move and returns the claimed cell.
func (that *botService) MakeTurn(game *entity.Game) (int, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", game.ID)

	started := time.Now()

	cell, err := tictactoe.ChooseMove(game.State)
	if err != nil {
		return 0, fmt.Errorf("bot failed to choose move: %w", err)
	}

	mark := game.State.ToMove()
	if err = game.Claim(cell); err != nil {
		return 0, fmt.Errorf("bot failed to make turn: %w", err)
	}

	log.Debug("bot made turn", "cell", cell, "mark", mark.String(), "elapsed", time.Since(started))

	return cell, nil
}
