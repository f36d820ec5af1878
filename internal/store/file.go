package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File keeps every slot in one JSON document on disk.
type File struct {
	mu   sync.Mutex
	path string
}

func defaultSavePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bizdom", "save.json"), nil
}

func NewFile(path string) (*File, error) {
	if path == "" {
		p, err := defaultSavePath()
		if err != nil {
			return nil, fmt.Errorf("resolve save path: %w", err)
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create save directory: %w", err)
	}
	return &File{path: path}, nil
}

func (f *File) Path() string {
	return f.path
}

func (f *File) read() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]json.RawMessage{}
	}
	return out, nil
}

func (f *File) Save(_ context.Context, slot string, payload []byte) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	if !json.Valid(payload) {
		return fmt.Errorf("save slot %s: payload is not json", slot)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	slots, err := f.read()
	if err != nil {
		// Unreadable files are overwritten.
		slots = map[string]json.RawMessage{}
	}
	slots[slot] = json.RawMessage(payload)
	raw, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *File) Load(_ context.Context, slot string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slots, err := f.read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSave, err)
	}
	raw, ok := slots[slot]
	if !ok || len(raw) == 0 {
		return nil, ErrNoSave
	}
	return []byte(raw), nil
}

func (f *File) Close() error {
	return nil
}
