// Package ledger is the engine's external balance collaborator: buy-ins
// are debited when players sit down, payouts and refunds credited back
// when the delivery layer settles engine events. The engine itself never
// touches it.
package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrInsufficientBalance = errors.New("ledger: insufficient balance")

type Ledger interface {
	// Debit withdraws amount from the player's balance, failing with
	// ErrInsufficientBalance rather than overdrawing.
	Debit(ctx context.Context, playerID string, amount decimal.Decimal) error
	// Credit deposits amount into the player's balance.
	Credit(ctx context.Context, playerID string, amount decimal.Decimal) error
	Balance(ctx context.Context, playerID string) (decimal.Decimal, error)
}

// Memory is an in-process ledger for tests and ledger-less deployments.
// Unknown players start at the opening balance.
type Memory struct {
	mu       sync.Mutex
	opening  decimal.Decimal
	balances map[string]decimal.Decimal
}

func NewMemory(opening decimal.Decimal) *Memory {
	return &Memory{
		opening:  opening,
		balances: make(map[string]decimal.Decimal),
	}
}

func (m *Memory) balance(playerID string) decimal.Decimal {
	if b, ok := m.balances[playerID]; ok {
		return b
	}
	return m.opening
}

func (m *Memory) Debit(_ context.Context, playerID string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.balance(playerID)
	if amount.GreaterThan(b) {
		return ErrInsufficientBalance
	}
	m.balances[playerID] = b.Sub(amount)
	return nil
}

func (m *Memory) Credit(_ context.Context, playerID string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[playerID] = m.balance(playerID).Add(amount)
	return nil
}

func (m *Memory) Balance(_ context.Context, playerID string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance(playerID), nil
}
