package ledger

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schema embed.FS

// Postgres keeps balances in a single table, amounts as NUMERIC.
type Postgres struct {
	pool *pgxpool.Pool
}

func Open(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("ledger: open: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (db *Postgres) Close() { db.pool.Close() }

func (db *Postgres) Ping(ctx context.Context) error { return db.pool.Ping(ctx) }

func Migrate(ctx context.Context, db *Postgres) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.pool.Exec(ctx, string(sqlBytes))
	return err
}

func (db *Postgres) Debit(ctx context.Context, playerID string, amount decimal.Decimal) error {
	tag, err := db.pool.Exec(ctx, `
		UPDATE balances
		   SET amount = amount - $2,
		       updated_at = now()
		 WHERE player_id = $1
		   AND amount >= $2
	`, playerID, amount.String())
	if err != nil {
		return fmt.Errorf("ledger: debit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

func (db *Postgres) Credit(ctx context.Context, playerID string, amount decimal.Decimal) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO balances(player_id, amount)
		VALUES ($1, $2)
		ON CONFLICT (player_id) DO UPDATE
		  SET amount = balances.amount + EXCLUDED.amount,
		      updated_at = now()
	`, playerID, amount.String())
	if err != nil {
		return fmt.Errorf("ledger: credit: %w", err)
	}
	return nil
}

func (db *Postgres) Balance(ctx context.Context, playerID string) (decimal.Decimal, error) {
	var raw string
	err := db.pool.QueryRow(ctx, `
		SELECT amount::text FROM balances WHERE player_id = $1
	`, playerID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("ledger: balance: %w", err)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger: balance: %w", err)
	}
	return amount, nil
}
