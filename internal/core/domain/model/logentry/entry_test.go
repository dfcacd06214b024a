package logentry_test

import (
	"testing"
	"time"

	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	t.Run("valid entry copies detail", func(t *testing.T) {
		detail := map[string]any{"parcel_id": "P-1"}

		entry, err := logentry.NewEntry("Orchestrator", "generate_parcel_id", logentry.LevelInfo, detail, now)

		require.NoError(t, err)
		require.NoError(t, entry.Validate())
		assert.Zero(t, entry.ID())
		assert.Equal(t, "Orchestrator", entry.Source())
		assert.Equal(t, "generate_parcel_id", entry.Action())
		assert.Equal(t, logentry.LevelInfo, entry.Level())
		assert.Equal(t, now, entry.Timestamp())

		detail["parcel_id"] = "P-2"
		parcelID, ok := entry.ParcelID()
		assert.True(t, ok)
		assert.Equal(t, "P-1", parcelID)
	})

	t.Run("nil detail is allowed", func(t *testing.T) {
		entry, err := logentry.NewEntry("Orchestrator", "workflow_completed", logentry.LevelInfo, nil, now)

		require.NoError(t, err)
		assert.Empty(t, entry.Detail())
		_, ok := entry.ParcelID()
		assert.False(t, ok)
	})

	t.Run("collects every validation error", func(t *testing.T) {
		_, err := logentry.NewEntry(" ", "", logentry.Level("debug"), nil, time.Time{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "source")
		assert.Contains(t, err.Error(), "action")
		assert.Contains(t, err.Error(), "timestamp")
	})
}

func TestEntry_WithID(t *testing.T) {
	entry, _ := logentry.NewEntry("Orchestrator", "acquire_vehicle", logentry.LevelError, nil, time.Now())

	stored := entry.WithID(7)

	assert.Equal(t, int64(7), stored.ID())
	assert.Zero(t, entry.ID())
	assert.Equal(t, logentry.LevelError, stored.Level())
}

func TestParseLevel(t *testing.T) {
	level, err := logentry.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, logentry.LevelInfo, level)

	level, err = logentry.ParseLevel("ERROR")
	require.NoError(t, err)
	assert.Equal(t, logentry.LevelError, level)

	_, err = logentry.ParseLevel("warn")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
