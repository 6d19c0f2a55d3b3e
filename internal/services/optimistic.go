package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
)

type OptimisticState string

const (
	OptimisticIdle       OptimisticState = "idle"
	OptimisticApplying   OptimisticState = "applying_optimistic"
	OptimisticAwaiting   OptimisticState = "awaiting_remote"
	OptimisticCommitted  OptimisticState = "committed"
	OptimisticRolledBack OptimisticState = "rolled_back"
)

// Optimistic wraps a visible value with speculative-update semantics: Run
// shows a locally merged guess immediately, then settles to either the
// canonical server value or the exact prior snapshot. It never leaves a
// half-applied guess visible.
type Optimistic[T any] struct {
	mu      sync.Mutex
	value   T
	state   OptimisticState
	log     *logger.Logger
	onError func(*errs.Error)
}

func NewOptimistic[T any](initial T, baseLog *logger.Logger, onError func(*errs.Error)) *Optimistic[T] {
	return &Optimistic[T]{
		value:   initial,
		state:   OptimisticIdle,
		log:     baseLog.With("component", "Optimistic"),
		onError: onError,
	}
}

func (o *Optimistic[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

func (o *Optimistic[T]) State() OptimisticState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Run applies merge to the current value, makes the result visible, then
// issues remote with it. A successful remote replaces the visible value with
// the canonical result; any failure or panic restores the pre-mutation
// snapshot exactly. Non-domain failures are converted to validation-shaped
// errors before they reach the error callback.
func (o *Optimistic[T]) Run(ctx context.Context, merge func(T) T, remote func(context.Context, T) (T, error)) (err error) {
	o.mu.Lock()
	snapshot := o.value
	o.state = OptimisticApplying
	optimistic := merge(snapshot)
	o.value = optimistic
	o.state = OptimisticAwaiting
	o.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = o.rollback(snapshot, fmt.Errorf("panic during remote operation: %v", r))
		}
	}()

	canonical, remoteErr := remote(ctx, optimistic)
	if remoteErr != nil {
		return o.rollback(snapshot, remoteErr)
	}

	o.mu.Lock()
	o.value = canonical
	o.state = OptimisticCommitted
	o.mu.Unlock()
	return nil
}

func (o *Optimistic[T]) rollback(snapshot T, cause error) error {
	o.mu.Lock()
	o.value = snapshot
	o.state = OptimisticRolledBack
	o.mu.Unlock()

	domainErr := errs.AsError(cause)
	o.log.Debug("Optimistic update rolled back", "code", domainErr.Code, "error", cause)
	if o.onError != nil {
		o.onError(domainErr)
	}
	return domainErr
}
