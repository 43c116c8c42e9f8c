// Package task runs one unit of blocking work under a hard wall-clock
// deadline. The outer deadline is independent of any timeout the work
// configures internally (an HTTP client timeout, a completion API timeout),
// acting as a backstop so the caller never waits forever even when the inner
// mechanism fails to fire.
package task

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrDeadline is carried by a timed-out Outcome.
var ErrDeadline = errors.New("the operation exceeded its deadline")

// Outcome is the tagged result of one bounded run. Exactly one of the three
// states holds: success (Err nil, TimedOut false), timed out, or failed.
type Outcome[T any] struct {
	Value    T
	Err      error
	TimedOut bool
	Elapsed  time.Duration
}

// Success reports whether the work completed and returned no error.
func (o Outcome[T]) Success() bool {
	return !o.TimedOut && o.Err == nil
}

// Run executes work in its own goroutine and blocks until the work returns
// or the outer deadline elapses, whichever comes first. Each call owns its
// goroutine end to end; nothing is shared across calls.
//
// The deadline-bounded context is passed into work so that timing out also
// cancels the in-flight external call instead of leaving it running
// detached. The caller still gets its TimedOut outcome at the deadline even
// if the work ignores cancellation; the result channel is buffered so a
// late-finishing worker can exit without leaking.
//
// A panic inside work is recovered and reported as a failed outcome rather
// than taking down the process.
func Run[T any](ctx context.Context, outer time.Duration, work func(context.Context) (T, error)) Outcome[T] {
	start := time.Now()
	workCtx, cancel := context.WithTimeout(ctx, outer)
	defer cancel()

	done := make(chan Outcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Outcome[T]{Err: fmt.Errorf("task panicked: %v", r)}
			}
		}()
		v, err := work(workCtx)
		done <- Outcome[T]{Value: v, Err: err}
	}()

	select {
	case out := <-done:
		out.Elapsed = time.Since(start)
		return out
	case <-workCtx.Done():
		out := Outcome[T]{Elapsed: time.Since(start)}
		if errors.Is(workCtx.Err(), context.DeadlineExceeded) {
			out.TimedOut = true
			out.Err = ErrDeadline
		} else {
			// Parent context canceled, e.g. the client hung up.
			out.Err = workCtx.Err()
		}
		return out
	}
}
