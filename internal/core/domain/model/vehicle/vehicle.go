package vehicle

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/pkg/errs"
	"parcel-dispatch/internal/pkg/guard"
)

// ErrVehicleIsNotConstructed is returned when using an improperly initialised Vehicle.
var ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle or RestoreVehicle")

// Vehicle is a delivery vehicle registered in the inventory.
//
// Availability is an operator-controlled flag. Acquiring a vehicle for a
// parcel does not clear it, so several parcels may be bound to the same
// vehicle.
type Vehicle struct {
	id           kernel.VehicleID
	available    bool
	notifyURL    string
	registeredAt time.Time

	guard guard.ConstructorGuard
}

// NewVehicle registers a vehicle.
//
// Parameters:
//   - id: vehicle identifier (must be constructed)
//   - notifyURL: endpoint for assignment notifications, empty for the default
//   - available: whether the vehicle may be picked automatically
//   - now: registration time
//
// Example:
//
//	v, err := vehicle.NewVehicle(kernel.MustVehicleID("V-1"), "", true, time.Now())
func NewVehicle(id kernel.VehicleID, notifyURL string, available bool, now time.Time) (*Vehicle, error) {
	v := &Vehicle{
		available:    available,
		registeredAt: now,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setID(id),
		v.SetNotifyURL(notifyURL),
	); err != nil {
		return nil, err
	}

	return v, nil
}

// RestoreVehicle rebuilds a Vehicle loaded from a repository.
func RestoreVehicle(id kernel.VehicleID, notifyURL string, available bool, registeredAt time.Time) (*Vehicle, error) {
	return NewVehicle(id, notifyURL, available, registeredAt)
}

func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

func (v *Vehicle) ID() kernel.VehicleID {
	return v.id
}

func (v *Vehicle) IsAvailable() bool {
	return v.available
}

func (v *Vehicle) NotifyURL() string {
	return v.notifyURL
}

func (v *Vehicle) RegisteredAt() time.Time {
	return v.registeredAt
}

// IsEqual compares vehicles by identifier.
func (v *Vehicle) IsEqual(other *Vehicle) bool {
	if other == nil {
		return false
	}
	return v.id.IsEqual(other.id)
}

// MarkAvailable lets the vehicle be picked automatically again.
func (v *Vehicle) MarkAvailable() {
	v.available = true
}

// MarkUnavailable keeps the vehicle registered but out of automatic selection.
func (v *Vehicle) MarkUnavailable() {
	v.available = false
}

// SetNotifyURL changes the notification endpoint. An empty string clears it.
func (v *Vehicle) SetNotifyURL(raw string) error {
	if raw == "" {
		v.notifyURL = ""
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("notify_url", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errs.NewValueIsInvalidErrorWithCause("notify_url",
			fmt.Errorf("%q is not an absolute http(s) url", raw))
	}

	v.notifyURL = raw
	return nil
}

func (v *Vehicle) setID(id kernel.VehicleID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	v.id = id
	return nil
}
