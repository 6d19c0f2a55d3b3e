package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
)

func TestOptimisticRun_CommitReplacesWithCanonical(t *testing.T) {
	opt := NewOptimistic([]string{"a"}, testLogger(t), nil)

	err := opt.Run(context.Background(),
		func(cur []string) []string { return append(cur, "b") },
		func(ctx context.Context, guess []string) ([]string, error) {
			// server canonicalizes differently than the local guess
			return []string{"a", "b", "server"}, nil
		})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if opt.State() != OptimisticCommitted {
		t.Fatalf("state: want=%s got=%s", OptimisticCommitted, opt.State())
	}
	got := opt.Value()
	if len(got) != 3 || got[2] != "server" {
		t.Fatalf("canonical value not taken: %v", got)
	}
}

func TestOptimisticRun_RollbackRestoresExactSnapshot(t *testing.T) {
	var cbErr *errs.Error
	opt := NewOptimistic([]string{"a", "b"}, testLogger(t), func(e *errs.Error) { cbErr = e })

	err := opt.Run(context.Background(),
		func(cur []string) []string { return append(cur, "c") },
		func(ctx context.Context, guess []string) ([]string, error) {
			return nil, errs.Newf(errs.CodeDatabaseWrite, "boom")
		})
	if err == nil {
		t.Fatalf("expected error")
	}
	if opt.State() != OptimisticRolledBack {
		t.Fatalf("state: want=%s got=%s", OptimisticRolledBack, opt.State())
	}
	got := opt.Value()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("snapshot not restored: %v", got)
	}
	if cbErr == nil || cbErr.Code != errs.CodeDatabaseWrite {
		t.Fatalf("error callback: %v", cbErr)
	}
}

func TestOptimisticRun_GuessVisibleWhileAwaitingRemote(t *testing.T) {
	opt := NewOptimistic(0, testLogger(t), nil)

	var seen int
	var seenState OptimisticState
	err := opt.Run(context.Background(),
		func(cur int) int { return cur + 1 },
		func(ctx context.Context, guess int) (int, error) {
			seen = opt.Value()
			seenState = opt.State()
			return guess, nil
		})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seen != 1 {
		t.Fatalf("optimistic value not visible during remote: %d", seen)
	}
	if seenState != OptimisticAwaiting {
		t.Fatalf("state during remote: want=%s got=%s", OptimisticAwaiting, seenState)
	}
}

func TestOptimisticRun_PanicRollsBack(t *testing.T) {
	opt := NewOptimistic("before", testLogger(t), nil)

	err := opt.Run(context.Background(),
		func(cur string) string { return "guess" },
		func(ctx context.Context, guess string) (string, error) {
			panic("remote blew up")
		})
	if err == nil {
		t.Fatalf("expected error from panic")
	}
	if opt.Value() != "before" {
		t.Fatalf("snapshot not restored after panic: %q", opt.Value())
	}
	if opt.State() != OptimisticRolledBack {
		t.Fatalf("state: want=%s got=%s", OptimisticRolledBack, opt.State())
	}
}

func TestOptimisticRun_NonDomainErrorConverted(t *testing.T) {
	var cbErr *errs.Error
	opt := NewOptimistic(0, testLogger(t), func(e *errs.Error) { cbErr = e })

	err := opt.Run(context.Background(),
		func(cur int) int { return cur + 1 },
		func(ctx context.Context, guess int) (int, error) {
			return 0, fmt.Errorf("plain transport failure")
		})
	if err == nil {
		t.Fatalf("expected error")
	}
	if cbErr == nil || cbErr.Code != errs.CodeValidationFailed {
		t.Fatalf("expected %s shaped error, got %v", errs.CodeValidationFailed, cbErr)
	}
}
