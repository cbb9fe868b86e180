package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *pgxpool.Pool the slot needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	selectSlotSQL = `SELECT value FROM session_slots WHERE key = $1`
	upsertSlotSQL = `INSERT INTO session_slots (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteSlotSQL = `DELETE FROM session_slots WHERE key = $1`
)

// PostgresSlot keeps the token in one row of the session_slots table.
type PostgresSlot struct {
	db  Querier
	key string
}

// NewPostgresSlot stores the token in the row identified by key.
func NewPostgresSlot(db Querier, key string) *PostgresSlot {
	return &PostgresSlot{db: db, key: key}
}

func (p *PostgresSlot) Load() (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), slotOpTimeout)
	defer cancel()

	var token string
	err := p.db.QueryRow(ctx, selectSlotSQL, p.key).Scan(&token)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (p *PostgresSlot) Save(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), slotOpTimeout)
	defer cancel()
	_, err := p.db.Exec(ctx, upsertSlotSQL, p.key, token)
	return err
}

func (p *PostgresSlot) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), slotOpTimeout)
	defer cancel()
	_, err := p.db.Exec(ctx, deleteSlotSQL, p.key)
	return err
}
