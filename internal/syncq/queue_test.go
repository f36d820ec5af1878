package syncq

import (
	"os"
	"path/filepath"
	"testing"
)

func TestQueuePushDrop(t *testing.T) {
	q := New(filepath.Join(t.TempDir(), "nested", "queue.json"))

	cmds, err := q.Load()
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(cmds) != 0 {
		t.Fatalf("expected empty queue, got %d", len(cmds))
	}

	for _, key := range []string{"a", "b", "c"} {
		err := q.Push(Command{Method: "POST", Path: "/v1/actions/hire", Body: map[string]any{"candidate_id": 7}, IdempotencyKey: key})
		if err != nil {
			t.Fatalf("push %s: %v", key, err)
		}
	}
	if err := q.Drop("a", "c", "missing"); err != nil {
		t.Fatalf("drop: %v", err)
	}

	cmds, err = q.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cmds) != 1 || cmds[0].IdempotencyKey != "b" {
		t.Fatalf("unexpected queue %+v", cmds)
	}
	if got := cmds[0].Body["candidate_id"]; got != float64(7) {
		t.Fatalf("body round trip got=%v", got)
	}
}

func TestQueueCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.json")
	if err := os.WriteFile(path, []byte("[{"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	q := New(path)
	if _, err := q.Load(); err == nil {
		t.Fatalf("expected decode error")
	}
	if err := q.Push(Command{IdempotencyKey: "x"}); err == nil {
		t.Fatalf("push onto a corrupt queue should fail rather than drop commands")
	}
}
