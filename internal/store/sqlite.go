package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type SQLite struct {
	conn *sqlx.DB
}

type slotRow struct {
	Slot    string `db:"slot"`
	Payload string `db:"payload"`
	SavedAt int64  `db:"saved_at"`
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		path = filepath.Join("tmp", "bizdom.sqlite")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &SQLite{conn: conn}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS save_slots (
		slot TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	)`)
	return err
}

func (s *SQLite) Save(ctx context.Context, slot string, payload []byte) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	_, err := s.conn.NamedExecContext(ctx, `
		INSERT INTO save_slots (slot, payload, saved_at)
		VALUES (:slot, :payload, :saved_at)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`, slotRow{Slot: slot, Payload: string(payload), SavedAt: time.Now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, slot string) ([]byte, error) {
	var row slotRow
	err := s.conn.GetContext(ctx, &row, `SELECT slot, payload, saved_at FROM save_slots WHERE slot = ?`, slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}
	if row.Payload == "" {
		return nil, ErrNoSave
	}
	return []byte(row.Payload), nil
}

// Slots lists stored slots, newest first.
func (s *SQLite) Slots(ctx context.Context) ([]string, error) {
	var out []string
	if err := s.conn.SelectContext(ctx, &out, `SELECT slot FROM save_slots ORDER BY saved_at DESC`); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return out, nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}
