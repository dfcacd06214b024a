package vehicle_test

import (
	"testing"
	"time"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVehicle(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name      string
		id        kernel.VehicleID
		notifyURL string
		wantErr   error
	}{
		{name: "minimal", id: kernel.MustVehicleID("V-1")},
		{name: "with notify url", id: kernel.MustVehicleID("V-1"), notifyURL: "http://vehicles.local/notify"},
		{name: "zero id", id: kernel.VehicleID{}, wantErr: errs.ErrValueIsRequired},
		{name: "relative url", id: kernel.MustVehicleID("V-1"), notifyURL: "/notify", wantErr: errs.ErrValueIsInvalid},
		{name: "ftp url", id: kernel.MustVehicleID("V-1"), notifyURL: "ftp://host/x", wantErr: errs.ErrValueIsInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := vehicle.NewVehicle(tc.id, tc.notifyURL, true, now)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, v)
				return
			}
			require.NoError(t, err)
			require.NoError(t, v.Validate())
			assert.True(t, v.IsAvailable())
			assert.Equal(t, tc.notifyURL, v.NotifyURL())
			assert.Equal(t, now, v.RegisteredAt())
		})
	}
}

func TestVehicle_Availability(t *testing.T) {
	v, err := vehicle.NewVehicle(kernel.MustVehicleID("V-1"), "", false, time.Now())
	require.NoError(t, err)
	assert.False(t, v.IsAvailable())

	v.MarkAvailable()
	assert.True(t, v.IsAvailable())

	v.MarkUnavailable()
	assert.False(t, v.IsAvailable())
}

func TestVehicle_IsEqual(t *testing.T) {
	a, _ := vehicle.NewVehicle(kernel.MustVehicleID("V-1"), "", true, time.Now())
	b, _ := vehicle.NewVehicle(kernel.MustVehicleID("V-1"), "http://x.local", false, time.Now())
	c, _ := vehicle.NewVehicle(kernel.MustVehicleID("V-2"), "", true, time.Now())

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
	assert.False(t, a.IsEqual(nil))
}

func TestVehicle_ZeroValue(t *testing.T) {
	var v vehicle.Vehicle
	require.ErrorIs(t, v.Validate(), vehicle.ErrVehicleIsNotConstructed)
}
