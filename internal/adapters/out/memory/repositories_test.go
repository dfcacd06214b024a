package memory_test

import (
	"sync"
	"testing"
	"time"

	"parcel-dispatch/internal/adapters/out/memory"
	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func TestAssignmentRepository(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewAssignmentRepository()
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

	require.NoError(t, stored.Finalize(kernel.MustVehicleID("V-1"), assignment.Metadata{"k": "v"}, t0.Add(time.Second)))
	require.NoError(t, repo.Save(ctx, stored))

	reloaded, err := repo.Get(ctx, parcelID)
	require.NoError(t, err)
	assert.Equal(t, assignment.Assigned, reloaded.Status())
	assert.Equal(t, "V-1", reloaded.VehicleID().String())
	assert.Equal(t, "v", reloaded.Metadata()["k"])

	_, err = repo.Get(ctx, kernel.MustParcelID("P-404"))
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestAssignmentRepository_ReadsAreSnapshots(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewAssignmentRepository()
	a, _ := assignment.NewPlaceholder(kernel.MustParcelID("P-1"), t0)
	require.NoError(t, repo.Save(ctx, a))

	loaded, _ := repo.Get(ctx, kernel.MustParcelID("P-1"))
	require.NoError(t, loaded.ChangeStatus(assignment.Failed, t0))

	again, _ := repo.Get(ctx, kernel.MustParcelID("P-1"))
	assert.Equal(t, assignment.Pending, again.Status())
}

func TestAssignmentRepository_ListPendingBefore(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewAssignmentRepository()

	for i, id := range []string{"P-3", "P-1", "P-2"} {
		a, _ := assignment.NewPlaceholder(kernel.MustParcelID(id), t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Save(ctx, a))
	}
	done, _ := assignment.NewAssigned(kernel.MustParcelID("P-0"), kernel.MustVehicleID("V-1"), nil, t0)
	require.NoError(t, repo.Save(ctx, done))

	pending, err := repo.ListPendingBefore(ctx, t0.Add(90*time.Second), 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "P-3", pending[0].ParcelID().String())
	assert.Equal(t, "P-1", pending[1].ParcelID().String())

	limited, err := repo.ListPendingBefore(ctx, t0.Add(time.Hour), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestAssignmentRepository_ConcurrentSaves(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewAssignmentRepository()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, _ := assignment.NewPlaceholder(kernel.MustParcelID("P-"+string(rune('A'+i%26))), t0)
			_, _ = repo.CreateIfAbsent(ctx, a)
		}()
	}
	wg.Wait()

	pending, err := repo.ListPendingBefore(ctx, t0.Add(time.Second), 0)
	require.NoError(t, err)
	assert.Len(t, pending, 26)
}

func TestLogRepository(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewLogRepository()

	for _, parcelID := range []string{"P-1", "P-2", "P-1"} {
		e, _ := logentry.NewEntry("Orchestrator", "generate_parcel_id", logentry.LevelInfo,
			map[string]any{"parcel_id": parcelID}, t0)
		stored, err := repo.Append(ctx, e)
		require.NoError(t, err)
		assert.Positive(t, stored.ID())
	}

	all, err := repo.List(ctx, ports.LogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].ID())

	forP1, err := repo.List(ctx, ports.LogFilter{ParcelID: "P-1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, forP1, 1)
	assert.Equal(t, int64(3), forP1[0].ID())
}

func TestVehicleRepository(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewVehicleRepository()

	for _, id := range []string{"V-2", "V-1"} {
		v, _ := vehicle.NewVehicle(kernel.MustVehicleID(id), "", true, t0)
		require.NoError(t, repo.Save(ctx, v))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "V-1", list[0].ID().String())

	v, err := repo.Get(ctx, kernel.MustVehicleID("V-2"))
	require.NoError(t, err)
	v.MarkUnavailable()
	require.NoError(t, repo.Save(ctx, v))

	v, err = repo.Get(ctx, kernel.MustVehicleID("V-2"))
	require.NoError(t, err)
	assert.False(t, v.IsAvailable())

	_, err = repo.Get(ctx, kernel.MustVehicleID("V-404"))
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
