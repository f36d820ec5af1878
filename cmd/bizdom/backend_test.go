package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	cl "bizdom/internal/cli"
)

func TestQueuedError(t *testing.T) {
	if queuedError(nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
	status := &cl.StatusError{Status: 409, Message: "busy"}
	if got := queuedError(status); got != status {
		t.Fatalf("server answers pass through unchanged, got %v", got)
	}

	dial := errors.New("dial tcp: connection refused")
	if got := queuedError(dial); !strings.Contains(got.Error(), "command queued") {
		t.Fatalf("queued command message got=%q", got)
	}

	lost := errors.Join(dial, fmt.Errorf("%w: read-only disk", cl.ErrNotQueued))
	got := queuedError(lost)
	if strings.Contains(got.Error(), "command queued") {
		t.Fatalf("unsaved command reported as queued: %q", got)
	}
	if !errors.Is(got, cl.ErrNotQueued) {
		t.Fatalf("expected ErrNotQueued in chain, got %v", got)
	}
}
