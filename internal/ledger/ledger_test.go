package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMemoryOpeningBalance(t *testing.T) {
	m := NewMemory(decimal.NewFromInt(1000))

	b, err := m.Balance(context.Background(), "alice")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !b.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("opening balance = %s, want 1000", b)
	}
}

func TestMemoryDebitCredit(t *testing.T) {
	m := NewMemory(decimal.NewFromInt(100))
	ctx := context.Background()

	if err := m.Debit(ctx, "alice", decimal.NewFromInt(20)); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := m.Credit(ctx, "alice", decimal.NewFromInt(5)); err != nil {
		t.Fatalf("credit: %v", err)
	}

	b, _ := m.Balance(ctx, "alice")
	if !b.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("balance = %s, want 85", b)
	}
}

func TestMemoryRejectsOverdraft(t *testing.T) {
	m := NewMemory(decimal.NewFromInt(10))
	ctx := context.Background()

	err := m.Debit(ctx, "alice", decimal.NewFromInt(11))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	b, _ := m.Balance(ctx, "alice")
	if !b.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("failed debit must not move money, balance = %s", b)
	}
}
