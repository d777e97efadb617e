package game

import "github.com/shopspring/decimal"

// Player is a seated player's per-round record. It is owned exclusively by
// its Session and mutated only under the session lock.
type Player struct {
	ID   string
	Name string

	// Stack is the player's uncommitted chips. Committed is what they have
	// wagered during the current stage; it moves into the pot when the
	// stage completes. roundTotal accumulates across stages for side-pot
	// layering and cancellation refunds.
	Stack      decimal.Decimal
	Committed  decimal.Decimal
	roundTotal decimal.Decimal

	Status Status
}

func newPlayer(id, name string, stack decimal.Decimal) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Stack:  stack,
		Status: StatusActive,
	}
}

// commit moves amount from the stack into the player's committed chips.
// Committing more than the stack holds is rejected before any mutation;
// committing exactly the stack puts the player all in.
func (p *Player) commit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		panic("game: negative commit")
	}
	if amount.GreaterThan(p.Stack) {
		return ErrInsufficientFunds
	}
	p.Stack = p.Stack.Sub(amount)
	p.Committed = p.Committed.Add(amount)
	p.roundTotal = p.roundTotal.Add(amount)
	if p.Stack.IsZero() && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
	return nil
}

// RoundTotal is everything the player has put into the pot this round.
func (p *Player) RoundTotal() decimal.Decimal { return p.roundTotal }

// resetForRound clears per-round state when a new round begins.
func (p *Player) resetForRound() {
	p.Committed = decimal.Zero
	p.roundTotal = decimal.Zero
	p.Status = StatusActive
}
