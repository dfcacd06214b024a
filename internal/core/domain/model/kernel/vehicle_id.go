package kernel

import (
	"parcel-dispatch/internal/pkg/errs"
	"parcel-dispatch/internal/pkg/guard"
)

// ErrVehicleIDIsNotConstructed is returned when validating a zero VehicleID.
var ErrVehicleIDIsNotConstructed = errs.NewValueIsRequiredError(
	"VehicleID must be created via VehicleIDFromString")

// VehicleID names a vehicle known to the registry. Once attached to an
// assignment it never changes.
type VehicleID struct {
	value string
	guard guard.ConstructorGuard
}

// VehicleIDFromString wraps a vehicle identifier such as "V-1" or "CAR-4821".
func VehicleIDFromString(s string) (VehicleID, error) {
	value, err := parseIdentifier("vehicle_id", s)
	if err != nil {
		return VehicleID{}, err
	}
	return VehicleID{value: value, guard: guard.NewConstructorGuard()}, nil
}

// MustVehicleID is VehicleIDFromString for literals known to be valid.
func MustVehicleID(s string) VehicleID {
	id, err := VehicleIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (v VehicleID) String() string {
	return v.value
}

func (v VehicleID) IsEqual(other VehicleID) bool {
	return v.value == other.value
}

func (v VehicleID) Validate() error {
	return v.guard.Validate(ErrVehicleIDIsNotConstructed)
}
