package entity

import "fmt"

// Outcome is derived from the board on demand and never stored.
type Outcome uint8

const (
	OutcomeOngoing Outcome = iota
	OutcomeTie
	OutcomeWonByX
	OutcomeWonByO
)

const (
	StatusOngoing = "ongoing"
	StatusTie     = "tie"
	StatusWon     = "won"
)

// WonBy returns the won outcome for player, or OutcomeOngoing for Empty.
func WonBy(player Mark) Outcome {
	switch player {
	case PlayerX:
		return OutcomeWonByX
	case PlayerO:
		return OutcomeWonByO
	default:
		return OutcomeOngoing
	}
}

// Winner reports the winning mark, false for ongoing and tied games.
func (that Outcome) Winner() (Mark, bool) {
	switch that {
	case OutcomeWonByX:
		return PlayerX, true
	case OutcomeWonByO:
		return PlayerO, true
	default:
		return Empty, false
	}
}

func (that Outcome) IsFinished() bool {
	return that != OutcomeOngoing
}

func (that Outcome) String() string {
	switch that {
	case OutcomeTie:
		return StatusTie
	case OutcomeWonByX, OutcomeWonByO:
		return StatusWon
	default:
		return StatusOngoing
	}
}

func (that Outcome) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

// UnmarshalText accepts the status strings. "won" loses the winner, which lives in a separate field.
func (that *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case StatusOngoing, "":
		*that = OutcomeOngoing
	case StatusTie:
		*that = OutcomeTie
	case StatusWon:
		*that = OutcomeWonByX
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}

	return nil
}
