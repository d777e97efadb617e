package game

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stage is a betting stage, derived from how many community cards are
// revealed. It is never stored independently of the board.
type Stage int

const (
	PreFlop Stage = iota
	Flop
	Turn
	River
)

// boardSizes maps a stage to its revealed community-card count.
var boardSizes = [...]int{0, 3, 4, 5}

func (s Stage) String() string {
	switch s {
	case PreFlop:
		return "pre-flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// stageFor derives the stage from the number of revealed cards.
func stageFor(revealed int) Stage {
	for i, n := range boardSizes {
		if n == revealed {
			return Stage(i)
		}
	}
	panic("game: board size out of range")
}

// Status is a player's standing within the current round. Transitions are
// one-way until the next round resets everyone to active.
type Status string

const (
	StatusActive Status = "active"
	StatusAllIn  Status = "all in"
	StatusFolded Status = "folded"
)

// ActionKind names a betting action.
type ActionKind string

const (
	ActionFold  ActionKind = "fold"
	ActionCheck ActionKind = "check"
	ActionCall  ActionKind = "call"
	ActionRaise ActionKind = "raise"
	ActionAllIn ActionKind = "all in"
)

// Currency describes how amounts are denominated and displayed.
type Currency struct {
	Symbol    string `json:"symbol"`
	Precision int32  `json:"precision"`
}

// MaxRoundLimit caps how many rounds a session may run. One shuffled deck
// serves the whole session and each round can reveal up to five community
// cards, so the cap keeps consumption within the 52-card deck.
const MaxRoundLimit = 10

// SessionConfig is everything a session needs beyond its participants.
type SessionConfig struct {
	RoundLimit     int
	BuyIn          decimal.Decimal
	Currency       Currency
	SessionTimeout time.Duration
	TurnTimeout    time.Duration
}
