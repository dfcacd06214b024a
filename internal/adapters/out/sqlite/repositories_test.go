package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"parcel-dispatch/internal/adapters/out/sqlite"
	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func openDB(t *testing.T, name string) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(t.Context(), filepath.Join(t.TempDir(), name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestAssignmentRepository(t *testing.T) {
	ctx := t.Context()
	repo, err := sqlite.NewAssignmentRepository(ctx, openDB(t, "assignments.db"))
	require.NoError(t, err)
	parcelID := kernel.MustParcelID("P-1")

	placeholder, _ := assignment.NewPlaceholder(parcelID, t0)
	created, err := repo.CreateIfAbsent(ctx, placeholder)
	require.NoError(t, err)
	assert.True(t, created)

	other, _ := assignment.NewAssigned(parcelID, kernel.MustVehicleID("V-9"), nil, t0)
	created, err = repo.CreateIfAbsent(ctx, other)
	require.NoError(t, err)
	assert.False(t, created)

	stored, err := repo.Get(ctx, parcelID)
	require.NoError(t, err)
	assert.Equal(t, assignment.Pending, stored.Status())
	assert.Nil(t, stored.VehicleID())
	assert.Equal(t, t0, stored.CreatedAt())

	require.NoError(t, stored.Finalize(kernel.MustVehicleID("V-1"),
		assignment.Metadata{"sender_name": "John", "nested": map[string]any{"floor": "3"}},
		t0.Add(1500*time.Millisecond)))
	require.NoError(t, repo.Save(ctx, stored))

	reloaded, err := repo.Get(ctx, parcelID)
	require.NoError(t, err)
	assert.Equal(t, assignment.Assigned, reloaded.Status())
	assert.Equal(t, "V-1", reloaded.VehicleID().String())
	assert.Equal(t, "John", reloaded.Metadata()["sender_name"])
	assert.Equal(t, map[string]any{"floor": "3"}, reloaded.Metadata()["nested"])
	assert.Equal(t, t0.Add(1500*time.Millisecond), reloaded.UpdatedAt())

	_, err = repo.Get(ctx, kernel.MustParcelID("P-404"))
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestAssignmentRepository_ListPendingBefore(t *testing.T) {
	ctx := t.Context()
	repo, err := sqlite.NewAssignmentRepository(ctx, openDB(t, "assignments.db"))
	require.NoError(t, err)

	// Sub-second offsets check that stored timestamps compare chronologically.
	offsets := map[string]time.Duration{
		"P-b": 0,
		"P-a": 0,
		"P-c": 500 * time.Millisecond,
		"P-d": 2 * time.Second,
	}
	for id, offset := range offsets {
		a, _ := assignment.NewPlaceholder(kernel.MustParcelID(id), t0.Add(offset))
		require.NoError(t, repo.Save(ctx, a))
	}
	done, _ := assignment.NewAssigned(kernel.MustParcelID("P-0"), kernel.MustVehicleID("V-1"), nil, t0)
	require.NoError(t, repo.Save(ctx, done))

	pending, err := repo.ListPendingBefore(ctx, t0.Add(time.Second), 0)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "P-a", pending[0].ParcelID().String())
	assert.Equal(t, "P-b", pending[1].ParcelID().String())
	assert.Equal(t, "P-c", pending[2].ParcelID().String())

	limited, err := repo.ListPendingBefore(ctx, t0.Add(time.Hour), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAssignmentRepository_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "assignments.db")

	db, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	repo, err := sqlite.NewAssignmentRepository(ctx, db)
	require.NoError(t, err)
	a, _ := assignment.NewPlaceholder(kernel.MustParcelID("P-1"), t0)
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, db.Close())

	db, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	repo, err = sqlite.NewAssignmentRepository(ctx, db)
	require.NoError(t, err)

	_, err = repo.Get(ctx, kernel.MustParcelID("P-1"))
	require.NoError(t, err)
}

func TestLogRepository(t *testing.T) {
	ctx := t.Context()
	repo, err := sqlite.NewLogRepository(ctx, openDB(t, "logs.db"))
	require.NoError(t, err)

	for i, parcelID := range []string{"P-1", "P-2", "P-1"} {
		e, _ := logentry.NewEntry("Orchestrator", "notify_vehicle", logentry.LevelInfo,
			map[string]any{logentry.ParcelIDKey: parcelID, "n": i}, t0.Add(time.Duration(i)*time.Second))
		stored, err := repo.Append(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), stored.ID())
	}
	failure, _ := logentry.NewEntry("Orchestrator", "workflow_failed", logentry.LevelError,
		map[string]any{"reason": "StoreUnavailable"}, t0)
	_, err = repo.Append(ctx, failure)
	require.NoError(t, err)

	all, err := repo.List(ctx, ports.LogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "workflow_failed", all[0].Action())
	assert.Equal(t, logentry.LevelError, all[0].Level())

	forParcel, err := repo.List(ctx, ports.LogFilter{ParcelID: "P-1"})
	require.NoError(t, err)
	require.Len(t, forParcel, 2)
	assert.Equal(t, int64(3), forParcel[0].ID())
	assert.Equal(t, t0.Add(2*time.Second), forParcel[0].Timestamp())
	assert.InDelta(t, 2, forParcel[0].Detail()["n"], 0)

	limited, err := repo.List(ctx, ports.LogFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLogRepository_RejectsUnconstructedEntry(t *testing.T) {
	repo, err := sqlite.NewLogRepository(t.Context(), openDB(t, "logs.db"))
	require.NoError(t, err)

	_, err = repo.Append(t.Context(), &logentry.Entry{})

	require.ErrorIs(t, err, logentry.ErrEntryIsNotConstructed)
}
