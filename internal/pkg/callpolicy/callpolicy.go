// Package callpolicy runs calls to collaborators under one of two policies.
//
// Hard calls abort the caller's workflow on failure: timeouts surface as
// errs.DependencyUnavailableError and every other error is returned as is.
// Soft calls are best effort: failures, timeouts and panics are logged and
// reported in the Outcome, never returned as errors.
//
// Both policies bound the call by a timeout, even when the callee ignores
// its context.
package callpolicy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"parcel-dispatch/internal/pkg/errs"
)

// DefaultTimeout applies when a caller passes a non-positive timeout.
const DefaultTimeout = 5 * time.Second

// PanicError carries a value recovered from a panicking callee.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("call panicked: %v", e.Value)
}

// Outcome describes how a soft call went.
type Outcome struct {
	Err      error
	Duration time.Duration
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// TimedOut reports whether the call hit its deadline.
func (o Outcome) TimedOut() bool {
	return errors.Is(o.Err, context.DeadlineExceeded)
}

// Hard runs fn under timeout on behalf of dependency.
func Hard(ctx context.Context, dependency string, timeout time.Duration, fn func(ctx context.Context) error) error {
	err := run(ctx, timeout, fn)
	if err == nil {
		return nil
	}

	var panicErr *PanicError
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &panicErr) {
		return errs.NewDependencyUnavailableErrorWithCause(dependency, err)
	}

	return err
}

// Soft runs fn under timeout on behalf of dependency and logs any failure
// through logger. The returned Outcome is informational only.
func Soft(
	ctx context.Context,
	logger *slog.Logger,
	dependency string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) Outcome {
	started := time.Now()
	err := run(ctx, timeout, fn)
	outcome := Outcome{Err: err, Duration: time.Since(started)}

	if err != nil && logger != nil {
		logger.WarnContext(ctx, "best-effort call failed",
			"dependency", dependency,
			"timed_out", outcome.TimedOut(),
			"duration", outcome.Duration,
			"error", err,
		)
	}

	return outcome
}

func run(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- &PanicError{Value: r}
			}
		}()
		done <- fn(callCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-callCtx.Done():
		return callCtx.Err()
	}
}
