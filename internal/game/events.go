package game

import (
	"github.com/shopspring/decimal"

	"github.com/holdroom/holdroom/internal/deck"
)

// Event is a structured notification produced by a session mutation. The
// engine never performs I/O; the delivery layer renders and fans these out.
// EventName is the wire name the delivery layer broadcasts under.
type Event interface {
	EventName() string
}

// CancelReason says why a session was torn down.
type CancelReason string

const (
	CancelledByHost   CancelReason = "host"
	CancelledTimeout  CancelReason = "timeout"
	CancelledComplete CancelReason = "round limit reached"
)

type PlayerJoined struct {
	Player string          `json:"player"`
	Name   string          `json:"name"`
	Stack  decimal.Decimal `json:"stack"`
}

type RoundStarted struct {
	Round      int             `json:"round"`
	Dealer     string          `json:"dealer"`
	SmallBlind string          `json:"smallBlind"`
	BigBlind   string          `json:"bigBlind"`
	Bet        decimal.Decimal `json:"bet"`
	NextToAct  string          `json:"nextToAct"`
}

type ActionTaken struct {
	Player string          `json:"player"`
	Kind   ActionKind      `json:"kind"`
	Bet    decimal.Decimal `json:"bet"` // table bet after the action
	AllIn  bool            `json:"allIn"`
}

type PlayerSkipped struct {
	Player string `json:"player"`
	Reason Status `json:"reason"`
}

type StageAdvanced struct {
	Stage Stage       `json:"stage"`
	Board []deck.Card `json:"board"`
}

type RoundWonByFold struct {
	Winner string          `json:"winner"`
	Pot    decimal.Decimal `json:"pot"`
}

// ShowdownReached fires when river betting completes. Hand ranking is out
// of scope here, so the layered pots are handed to the caller for external
// adjudication and the round freezes.
type ShowdownReached struct {
	Board []deck.Card `json:"board"`
	Pots  []Pot       `json:"pots"`
}

// TurnExpired reports the action forced on a player who ran out the turn
// clock: a check when there is nothing to call, a fold otherwise.
type TurnExpired struct {
	Player string     `json:"player"`
	Forced ActionKind `json:"forced"`
}

type SessionCancelled struct {
	Reason  CancelReason               `json:"reason"`
	Refunds map[string]decimal.Decimal `json:"refunds"`
}

func (PlayerJoined) EventName() string     { return "playerJoined" }
func (RoundStarted) EventName() string     { return "roundStarted" }
func (ActionTaken) EventName() string      { return "actionTaken" }
func (PlayerSkipped) EventName() string    { return "playerSkipped" }
func (StageAdvanced) EventName() string    { return "stageAdvanced" }
func (RoundWonByFold) EventName() string   { return "roundWonByFold" }
func (ShowdownReached) EventName() string  { return "showdownReached" }
func (TurnExpired) EventName() string      { return "turnExpired" }
func (SessionCancelled) EventName() string { return "sessionCancelled" }
