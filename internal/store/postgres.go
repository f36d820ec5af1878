package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bizdom/internal/db"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, errors.New("postgres store requires DATABASE_URL")
	}
	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	p := &Postgres{pool: pool}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return p, nil
}

// NewPostgres wraps an existing pool; the caller keeps ownership.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS save_slots (
			slot TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (p *Postgres) Save(ctx context.Context, slot string, payload []byte) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO save_slots (slot, payload, saved_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot) DO UPDATE SET payload = EXCLUDED.payload, saved_at = now()
	`, slot, payload)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context, slot string) ([]byte, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx, `SELECT payload FROM save_slots WHERE slot = $1`, slot).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}
	return payload, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
