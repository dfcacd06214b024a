package callpolicy_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"parcel-dispatch/internal/pkg/callpolicy"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestHard(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		called := false

		err := callpolicy.Hard(t.Context(), "idgen", time.Second, func(context.Context) error {
			called = true
			return nil
		})

		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("domain error is returned unchanged", func(t *testing.T) {
		notFound := errs.NewObjectNotFoundError("vehicle_id", "V-404")

		err := callpolicy.Hard(t.Context(), "registry", time.Second, func(context.Context) error {
			return notFound
		})

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		require.NotErrorIs(t, err, errs.ErrDependencyUnavailable)
	})

	t.Run("timeout becomes dependency unavailable", func(t *testing.T) {
		err := callpolicy.Hard(t.Context(), "store", 10*time.Millisecond, blockUntilDone)

		require.ErrorIs(t, err, errs.ErrDependencyUnavailable)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "store")
	})

	t.Run("callee ignoring its context is still bounded", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		started := time.Now()
		err := callpolicy.Hard(t.Context(), "store", 20*time.Millisecond, func(context.Context) error {
			<-release
			return nil
		})

		require.ErrorIs(t, err, errs.ErrDependencyUnavailable)
		assert.Less(t, time.Since(started), time.Second)
	})

	t.Run("panic becomes dependency unavailable", func(t *testing.T) {
		err := callpolicy.Hard(t.Context(), "idgen", time.Second, func(context.Context) error {
			panic("boom")
		})

		require.ErrorIs(t, err, errs.ErrDependencyUnavailable)
		var panicErr *callpolicy.PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Equal(t, "boom", panicErr.Value)
	})
}

func TestSoft(t *testing.T) {
	newLogger := func() (*slog.Logger, *bytes.Buffer) {
		buf := &bytes.Buffer{}
		return slog.New(slog.NewJSONHandler(buf, nil)), buf
	}

	t.Run("success logs nothing", func(t *testing.T) {
		logger, buf := newLogger()

		outcome := callpolicy.Soft(t.Context(), logger, "gateway", time.Second, func(context.Context) error {
			return nil
		})

		assert.True(t, outcome.OK())
		assert.Empty(t, buf.String())
	})

	t.Run("failure is logged and reported", func(t *testing.T) {
		logger, buf := newLogger()

		outcome := callpolicy.Soft(t.Context(), logger, "gateway", time.Second, func(context.Context) error {
			return errors.New("connection refused")
		})

		assert.False(t, outcome.OK())
		assert.False(t, outcome.TimedOut())
		assert.Contains(t, buf.String(), "connection refused")
		assert.Contains(t, buf.String(), `"dependency":"gateway"`)
	})

	t.Run("timeout is reported", func(t *testing.T) {
		logger, buf := newLogger()

		outcome := callpolicy.Soft(t.Context(), logger, "vehicle", 10*time.Millisecond, blockUntilDone)

		assert.True(t, outcome.TimedOut())
		assert.Contains(t, buf.String(), `"timed_out":true`)
	})

	t.Run("panic is contained", func(t *testing.T) {
		outcome := callpolicy.Soft(t.Context(), nil, "vehicle", time.Second, func(context.Context) error {
			panic("boom")
		})

		var panicErr *callpolicy.PanicError
		require.ErrorAs(t, outcome.Err, &panicErr)
	})

	t.Run("non-positive timeout falls back to default", func(t *testing.T) {
		var deadline time.Time

		callpolicy.Soft(t.Context(), nil, "vehicle", 0, func(ctx context.Context) error {
			deadline, _ = ctx.Deadline()
			return nil
		})

		assert.WithinDuration(t, time.Now().Add(callpolicy.DefaultTimeout), deadline, time.Second)
	})
}
