package collaborators_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"parcel-dispatch/internal/adapters/out/memory"
	"parcel-dispatch/internal/core/application/collaborators"
	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/domain/model/notification"
	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/core/ports/mocks"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return t0 }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func seedVehicles(t *testing.T, repo *memory.VehicleRepository, ids ...string) {
	t.Helper()
	for _, id := range ids {
		v, err := vehicle.NewVehicle(kernel.MustVehicleID(id), "", true, t0)
		require.NoError(t, err)
		require.NoError(t, repo.Save(t.Context(), v))
	}
}

func TestIDGenerator_Generate(t *testing.T) {
	t.Run("persists placeholder before returning", func(t *testing.T) {
		store := collaborators.NewAssignmentStore(memory.NewAssignmentRepository(), fixedClock)
		gen := collaborators.NewIDGenerator(store, func() kernel.ParcelID { return kernel.MustParcelID("P-1") }, discardLogger())

		parcelID, err := gen.Generate(t.Context(), map[string]any{"sender_name": "John"})

		require.NoError(t, err)
		assert.Equal(t, "P-1", parcelID.String())
		a, found, err := store.Get(t.Context(), parcelID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, assignment.Pending, a.Status())
		assert.Nil(t, a.VehicleID())
	})

	t.Run("default source yields distinct ids", func(t *testing.T) {
		store := collaborators.NewAssignmentStore(memory.NewAssignmentRepository(), fixedClock)
		gen := collaborators.NewIDGenerator(store, nil, nil)

		a, err := gen.Generate(t.Context(), nil)
		require.NoError(t, err)
		b, err := gen.Generate(t.Context(), nil)
		require.NoError(t, err)

		assert.False(t, a.IsEqual(b))
	})

	t.Run("store failure is dependency unavailable", func(t *testing.T) {
		store := new(mocks.AssignmentStore)
		store.On("CreatePlaceholder", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
		gen := collaborators.NewIDGenerator(store, nil, discardLogger())

		_, err := gen.Generate(t.Context(), nil)

		require.ErrorIs(t, err, errs.ErrDependencyUnavailable)
		store.AssertExpectations(t)
	})
}

func TestAssignmentStore(t *testing.T) {
	ctx := t.Context()
	parcelID := kernel.MustParcelID("P-1")

	t.Run("placeholder is idempotent", func(t *testing.T) {
		store := collaborators.NewAssignmentStore(memory.NewAssignmentRepository(), fixedClock)
		require.NoError(t, store.CreatePlaceholder(ctx, parcelID))
		require.NoError(t, store.AttachVehicle(ctx, parcelID, kernel.MustVehicleID("V-1")))

		require.NoError(t, store.CreatePlaceholder(ctx, parcelID))

		a, _, _ := store.Get(ctx, parcelID)
		assert.Equal(t, assignment.Assigned, a.Status())
	})

	t.Run("attach on unknown parcel is not found", func(t *testing.T) {
		store := collaborators.NewAssignmentStore(memory.NewAssignmentRepository(), fixedClock)

		err := store.AttachVehicle(ctx, parcelID, kernel.MustVehicleID("V-1"))

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("finalize then get round-trips", func(t *testing.T) {
		store := collaborators.NewAssignmentStore(memory.NewAssignmentRepository(), fixedClock)

		err := store.Finalize(ctx, parcelID, kernel.MustVehicleID("V-1"), assignment.Metadata{"description": "books"})
		require.NoError(t, err)

		a, found, err := store.Get(ctx, parcelID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "P-1", a.ParcelID().String())
		assert.Equal(t, "V-1", a.VehicleID().String())
		assert.Equal(t, assignment.Assigned, a.Status())
		assert.Equal(t, "books", a.Metadata()["description"])
	})

	t.Run("finalize overwrites placeholder", func(t *testing.T) {
		store := collaborators.NewAssignmentStore(memory.NewAssignmentRepository(), fixedClock)
		require.NoError(t, store.CreatePlaceholder(ctx, parcelID))

		require.NoError(t, store.Finalize(ctx, parcelID, kernel.MustVehicleID("V-1"), nil))
		require.NoError(t, store.Finalize(ctx, parcelID, kernel.MustVehicleID("V-1"), assignment.Metadata{"n": 2}))

		a, _, _ := store.Get(ctx, parcelID)
		assert.Equal(t, 2, a.Metadata()["n"])
	})

	t.Run("finalize with another vehicle is refused", func(t *testing.T) {
		store := collaborators.NewAssignmentStore(memory.NewAssignmentRepository(), fixedClock)
		require.NoError(t, store.Finalize(ctx, parcelID, kernel.MustVehicleID("V-1"), nil))

		err := store.Finalize(ctx, parcelID, kernel.MustVehicleID("V-2"), nil)

		require.ErrorIs(t, err, errs.ErrVehicleAlreadyAttached)
	})

	t.Run("get absent is not an error", func(t *testing.T) {
		store := collaborators.NewAssignmentStore(memory.NewAssignmentRepository(), fixedClock)

		a, found, err := store.Get(ctx, kernel.MustParcelID("P-999"))

		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, a)
	})

	t.Run("update status keeps vehicle", func(t *testing.T) {
		store := collaborators.NewAssignmentStore(memory.NewAssignmentRepository(), fixedClock)
		require.NoError(t, store.Finalize(ctx, parcelID, kernel.MustVehicleID("V-1"), nil))

		require.NoError(t, store.UpdateStatus(ctx, parcelID, assignment.InTransit))

		a, _, _ := store.Get(ctx, parcelID)
		assert.Equal(t, assignment.InTransit, a.Status())
		assert.Equal(t, "V-1", a.VehicleID().String())
	})

	t.Run("update status on placeholder persists without a vehicle", func(t *testing.T) {
		store := collaborators.NewAssignmentStore(memory.NewAssignmentRepository(), fixedClock)
		require.NoError(t, store.CreatePlaceholder(ctx, parcelID))

		require.NoError(t, store.UpdateStatus(ctx, parcelID, assignment.InTransit))

		a, found, err := store.Get(ctx, parcelID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, assignment.InTransit, a.Status())
		assert.Nil(t, a.VehicleID())
	})

	t.Run("update status on unknown parcel is not found", func(t *testing.T) {
		repo := memory.NewAssignmentRepository()
		store := collaborators.NewAssignmentStore(repo, fixedClock)

		err := store.UpdateStatus(ctx, kernel.MustParcelID("P-999"), assignment.InTransit)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		pending, _ := repo.ListPendingBefore(ctx, t0.Add(time.Hour), 0)
		assert.Empty(t, pending)
	})
}

func TestVehicleRegistry_Acquire(t *testing.T) {
	ctx := t.Context()
	parcelID := kernel.MustParcelID("P-1")

	newRegistry := func(t *testing.T, ids ...string) (*collaborators.VehicleRegistry, *collaborators.AssignmentStore) {
		vehicles := memory.NewVehicleRepository()
		seedVehicles(t, vehicles, ids...)
		store := collaborators.NewAssignmentStore(memory.NewAssignmentRepository(), fixedClock)
		require.NoError(t, store.CreatePlaceholder(ctx, parcelID))
		return collaborators.NewVehicleRegistry(vehicles, store, nil, "", discardLogger()), store
	}

	t.Run("first available vehicle is attached", func(t *testing.T) {
		registry, store := newRegistry(t, "V-2", "V-1")

		vehicleID, err := registry.Acquire(ctx, parcelID, nil)

		require.NoError(t, err)
		assert.Equal(t, "V-1", vehicleID.String())
		a, _, _ := store.Get(ctx, parcelID)
		assert.Equal(t, assignment.Assigned, a.Status())
		assert.Equal(t, "V-1", a.VehicleID().String())
	})

	t.Run("preferred vehicle is honoured", func(t *testing.T) {
		registry, _ := newRegistry(t, "V-1", "V-2")
		preferred := kernel.MustVehicleID("V-2")

		vehicleID, err := registry.Acquire(ctx, parcelID, &preferred)

		require.NoError(t, err)
		assert.Equal(t, "V-2", vehicleID.String())
	})

	t.Run("unknown preferred vehicle never touches the store", func(t *testing.T) {
		vehicles := memory.NewVehicleRepository()
		seedVehicles(t, vehicles, "V-1")
		store := new(mocks.AssignmentStore)
		registry := collaborators.NewVehicleRegistry(vehicles, store, nil, "", discardLogger())
		preferred := kernel.MustVehicleID("V-404")

		_, err := registry.Acquire(ctx, parcelID, &preferred)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		store.AssertNotCalled(t, "AttachVehicle", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty inventory", func(t *testing.T) {
		registry, _ := newRegistry(t)

		_, err := registry.Acquire(ctx, parcelID, nil)

		require.ErrorIs(t, err, errs.ErrNoVehicleAvailable)
	})
}

func TestVehicleRegistry_Notify(t *testing.T) {
	ctx := t.Context()
	parcelID := kernel.MustParcelID("P-1")
	metadata := assignment.Metadata{"pickup_address": "1 Main St"}

	t.Run("vehicle endpoint wins over default", func(t *testing.T) {
		vehicles := memory.NewVehicleRepository()
		v, _ := vehicle.NewVehicle(kernel.MustVehicleID("V-1"), "http://v1.local/notify", true, t0)
		require.NoError(t, vehicles.Save(ctx, v))
		webhook := new(mocks.WebhookSender)
		webhook.On("Send", mock.Anything, "http://v1.local/notify", mock.MatchedBy(func(p map[string]any) bool {
			return p["parcel_id"] == "P-1" && p["vehicle_id"] == "V-1"
		})).Return(nil).Once()
		registry := collaborators.NewVehicleRegistry(vehicles, nil, webhook, "http://default.local", discardLogger())

		require.NoError(t, registry.Notify(ctx, parcelID, kernel.MustVehicleID("V-1"), metadata))
		webhook.AssertExpectations(t)
	})

	t.Run("default endpoint for unknown vehicle", func(t *testing.T) {
		webhook := new(mocks.WebhookSender)
		webhook.On("Send", mock.Anything, "http://default.local", mock.Anything).Return(errors.New("refused")).Once()
		registry := collaborators.NewVehicleRegistry(memory.NewVehicleRepository(), nil, webhook, "http://default.local", discardLogger())

		err := registry.Notify(ctx, parcelID, kernel.MustVehicleID("V-9"), metadata)

		require.Error(t, err)
		webhook.AssertExpectations(t)
	})

	t.Run("no endpoint acknowledges locally", func(t *testing.T) {
		webhook := new(mocks.WebhookSender)
		registry := collaborators.NewVehicleRegistry(memory.NewVehicleRepository(), nil, webhook, "", discardLogger())

		require.NoError(t, registry.Notify(ctx, parcelID, kernel.MustVehicleID("V-1"), metadata))
		webhook.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEventLog_Append(t *testing.T) {
	ctx := t.Context()
	entry, _ := logentry.NewEntry("Orchestrator", "generate_parcel_id", logentry.LevelInfo, nil, t0)

	t.Run("writes to repository", func(t *testing.T) {
		repo := memory.NewLogRepository()
		eventLog := collaborators.NewEventLog(repo, discardLogger())

		eventLog.Append(ctx, entry)

		entries, err := eventLog.Entries(ctx, ports.LogFilter{})
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("write failure is swallowed and logged", func(t *testing.T) {
		buf := &bytes.Buffer{}
		repo := new(mocks.LogRepository)
		repo.On("Append", mock.Anything, entry).Return(nil, errors.New("database is locked")).Once()
		eventLog := collaborators.NewEventLog(repo, slog.New(slog.NewJSONHandler(buf, nil)))

		assert.NotPanics(t, func() { eventLog.Append(ctx, entry) })
		assert.Contains(t, buf.String(), "database is locked")
		repo.AssertExpectations(t)
	})

	t.Run("panicking repository is contained", func(t *testing.T) {
		repo := new(mocks.LogRepository)
		repo.On("Append", mock.Anything, entry).Run(func(mock.Arguments) { panic("boom") }).Once()
		eventLog := collaborators.NewEventLog(repo, discardLogger())

		assert.NotPanics(t, func() { eventLog.Append(ctx, entry) })
	})

	t.Run("nil entry is dropped", func(t *testing.T) {
		repo := new(mocks.LogRepository)
		eventLog := collaborators.NewEventLog(repo, discardLogger())

		assert.NotPanics(t, func() { eventLog.Append(ctx, nil) })
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestNotificationGateway_Relay(t *testing.T) {
	ctx := t.Context()

	t.Run("callback url overrides default", func(t *testing.T) {
		webhook := new(mocks.WebhookSender)
		webhook.On("Send", mock.Anything, "http://requester.local/cb", mock.Anything).Return(nil).Once()
		gateway := collaborators.NewNotificationGateway(webhook, "http://default.local", discardLogger())
		event := notification.NewAssignedEvent(kernel.MustParcelID("P-1"), kernel.MustVehicleID("V-1"), nil,
			"http://requester.local/cb", t0)

		require.NoError(t, gateway.Relay(ctx, event))
		webhook.AssertExpectations(t)
	})

	t.Run("falls back to default url", func(t *testing.T) {
		webhook := new(mocks.WebhookSender)
		webhook.On("Send", mock.Anything, "http://default.local", mock.Anything).Return(nil).Once()
		gateway := collaborators.NewNotificationGateway(webhook, "http://default.local", discardLogger())

		require.NoError(t, gateway.Relay(ctx, notification.NewUpdateEvent(kernel.MustParcelID("P-1"), assignment.Delivered, nil, t0)))
		webhook.AssertExpectations(t)
	})

	t.Run("no endpoint is a no-op", func(t *testing.T) {
		gateway := collaborators.NewNotificationGateway(nil, "", discardLogger())

		require.NoError(t, gateway.Relay(ctx, notification.NewUpdateEvent(kernel.MustParcelID("P-1"), assignment.Delivered, nil, t0)))
	})
}
