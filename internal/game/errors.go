package game

import "errors"

// Validation failures are sentinel values so the delivery layer can map
// them to user-facing replies with errors.Is. Every one of them leaves the
// session untouched; validation always completes before any field is
// written.
var (
	ErrGameInProgress     = errors.New("cannot join in the middle of a game")
	ErrRoundInProgress    = errors.New("cannot start in the middle of a round")
	ErrAlreadyJoined      = errors.New("player is already in the game")
	ErrNotEnoughPlayers   = errors.New("3 or more players must join before starting")
	ErrNotHost            = errors.New("only the host may do that")
	ErrNoActiveSession    = errors.New("no game is in progress")
	ErrNotParticipant     = errors.New("you are not a participant in this game")
	ErrOutOfTurn          = errors.New("it is not your turn")
	ErrPointlessFold      = errors.New("there is nothing to fold to")
	ErrCannotCheck        = errors.New("cannot check against an outstanding bet")
	ErrMustGoAllIn        = errors.New("you must go all in")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidRaiseAmount = errors.New("raise amount must be positive")
	ErrInvalidRoundLimit  = errors.New("a game must run between 1 and 10 rounds")
)
