package kernel_test

import (
	"strings"
	"testing"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParcelID(t *testing.T) {
	t.Run("mints a valid uuid", func(t *testing.T) {
		id := kernel.NewParcelID()

		require.NoError(t, id.Validate())
		_, err := uuid.Parse(id.String())
		require.NoError(t, err)
	})

	t.Run("mints distinct values", func(t *testing.T) {
		seen := make(map[string]struct{}, 100)
		for range 100 {
			seen[kernel.NewParcelID().String()] = struct{}{}
		}
		assert.Len(t, seen, 100)
	})
}

func TestParcelIDFromString(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "plain token", input: "P-1", want: "P-1"},
		{name: "surrounding spaces are trimmed", input: "  PARCEL-1A2B  ", want: "PARCEL-1A2B"},
		{name: "empty", input: "", wantErr: errs.ErrValueIsRequired},
		{name: "blank", input: "   ", wantErr: errs.ErrValueIsRequired},
		{name: "too long", input: strings.Repeat("x", kernel.MaxIdentifierLength+1), wantErr: errs.ErrValueIsOutOfRange},
		{name: "multi line", input: "P-1\nP-2", wantErr: errs.ErrValueIsInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := kernel.ParcelIDFromString(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Error(t, id.Validate())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, id.String())
		})
	}
}

func TestParcelID_ZeroValue(t *testing.T) {
	var id kernel.ParcelID

	require.ErrorIs(t, id.Validate(), errs.ErrValueIsRequired)
	assert.Empty(t, id.String())
}

func TestParcelID_IsEqual(t *testing.T) {
	a := kernel.MustParcelID("P-1")
	b := kernel.MustParcelID("P-1")
	c := kernel.MustParcelID("P-2")

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
	assert.Equal(t, a, b)
}

func TestVehicleIDFromString(t *testing.T) {
	id, err := kernel.VehicleIDFromString("V-1")
	require.NoError(t, err)
	require.NoError(t, id.Validate())
	assert.Equal(t, "V-1", id.String())
	assert.True(t, id.IsEqual(kernel.MustVehicleID("V-1")))

	_, err = kernel.VehicleIDFromString("")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zero kernel.VehicleID
	require.ErrorIs(t, zero.Validate(), errs.ErrValueIsRequired)
}

func TestMustParcelID_PanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() { kernel.MustParcelID("") })
	assert.Panics(t, func() { kernel.MustVehicleID(" ") })
}
