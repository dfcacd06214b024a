package services_test

import (
	"testing"
	"time"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/core/domain/services"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVehicle(t *testing.T, id string, available bool) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(kernel.MustVehicleID(id), "", available, time.Now())
	require.NoError(t, err)
	return v
}

func TestVehicleSelector_Select(t *testing.T) {
	selector := services.NewVehicleSelector()

	t.Run("should pick first available vehicle ordered by id", func(t *testing.T) {
		inventory := []*vehicle.Vehicle{
			newVehicle(t, "V-3", true),
			newVehicle(t, "V-1", false),
			newVehicle(t, "V-2", true),
		}

		chosen, err := selector.Select(nil, inventory)

		require.NoError(t, err)
		assert.Equal(t, "V-2", chosen.ID().String())
	})

	t.Run("should return preferred vehicle even if unavailable", func(t *testing.T) {
		inventory := []*vehicle.Vehicle{
			newVehicle(t, "V-1", true),
			newVehicle(t, "V-9", false),
		}
		preferred := kernel.MustVehicleID("V-9")

		chosen, err := selector.Select(&preferred, inventory)

		require.NoError(t, err)
		assert.Equal(t, "V-9", chosen.ID().String())
	})

	t.Run("should fail with not found for unknown preferred vehicle", func(t *testing.T) {
		inventory := []*vehicle.Vehicle{newVehicle(t, "V-1", true)}
		preferred := kernel.MustVehicleID("V-404")

		chosen, err := selector.Select(&preferred, inventory)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Nil(t, chosen)
	})

	t.Run("should fail when nothing is available", func(t *testing.T) {
		inventory := []*vehicle.Vehicle{newVehicle(t, "V-1", false)}

		_, err := selector.Select(nil, inventory)

		require.ErrorIs(t, err, errs.ErrNoVehicleAvailable)
	})

	t.Run("should fail on empty inventory", func(t *testing.T) {
		_, err := selector.Select(nil, nil)

		require.ErrorIs(t, err, errs.ErrNoVehicleAvailable)
	})

	t.Run("should reject unconstructed vehicles", func(t *testing.T) {
		_, err := selector.Select(nil, []*vehicle.Vehicle{{}})

		require.ErrorIs(t, err, vehicle.ErrVehicleIsNotConstructed)
	})
}
