// Package syncq keeps remote commands that could not reach the server so
// they can be replayed later through /v1/sync/replay.
package syncq

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

type Command struct {
	Method         string         `json:"method"`
	Path           string         `json:"path"`
	Body           map[string]any `json:"body,omitempty"`
	IdempotencyKey string         `json:"idempotency_key"`
}

// Queue is a JSON file of pending commands.
type Queue struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Queue {
	return &Queue{path: path}
}

// Default opens the queue at ~/.bizdom/queue.json.
func Default() (*Queue, error) {
	path, err := queuePath()
	if err != nil {
		return nil, err
	}
	return New(path), nil
}

func queuePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".bizdom")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "queue.json"), nil
}

func (q *Queue) Path() string { return q.path }

func (q *Queue) Load() ([]Command, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

func (q *Queue) load() ([]Command, error) {
	raw, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Command{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return []Command{}, nil
	}
	var out []Command
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (q *Queue) Save(commands []Command) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.save(commands)
}

func (q *Queue) save(commands []Command) error {
	if err := os.MkdirAll(filepath.Dir(q.path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(commands, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(q.path, raw, 0o600)
}

func (q *Queue) Push(cmd Command) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	commands, err := q.load()
	if err != nil {
		return err
	}
	commands = append(commands, cmd)
	return q.save(commands)
}

// Drop removes the commands whose idempotency keys are listed.
func (q *Queue) Drop(keys ...string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	commands, err := q.load()
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(keys))
	for _, k := range keys {
		done[k] = true
	}
	kept := commands[:0]
	for _, c := range commands {
		if !done[c.IdempotencyKey] {
			kept = append(kept, c)
		}
	}
	return q.save(kept)
}
