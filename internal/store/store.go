// Package store persists save slots for the engine.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNoSave means nothing usable is stored under the slot.
var ErrNoSave = errors.New("no save available")

type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindFile     Kind = "file"
)

type Options struct {
	Kind        Kind
	SQLitePath  string
	DatabaseURL string
	FilePath    string
	Logger      *slog.Logger
}

// Backend is a slot store that owns resources.
type Backend interface {
	Save(ctx context.Context, slot string, payload []byte) error
	Load(ctx context.Context, slot string) ([]byte, error)
	Close() error
}

func Open(ctx context.Context, opts Options) (Backend, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	switch Kind(strings.ToLower(strings.TrimSpace(string(opts.Kind)))) {
	case KindSQLite, "":
		s, err := OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("store opened", "kind", KindSQLite, "path", opts.SQLitePath)
		return s, nil
	case KindPostgres:
		s, err := OpenPostgres(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("store opened", "kind", KindPostgres)
		return s, nil
	case KindFile:
		s, err := NewFile(opts.FilePath)
		if err != nil {
			return nil, err
		}
		logger.Info("store opened", "kind", KindFile, "path", s.Path())
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store kind %q", opts.Kind)
	}
}

func validSlot(slot string) error {
	slot = strings.TrimSpace(slot)
	if slot == "" || len(slot) > 64 {
		return fmt.Errorf("invalid slot %q", slot)
	}
	return nil
}
