package ports

import (
	"context"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/vehicle"
)

// VehicleRepository holds the registry's inventory.
type VehicleRepository interface {
	// Save registers v or replaces the stored vehicle with the same id.
	Save(ctx context.Context, v *vehicle.Vehicle) error

	// Get returns the vehicle, or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.VehicleID) (*vehicle.Vehicle, error)

	// List returns every registered vehicle ordered by id.
	List(ctx context.Context) ([]*vehicle.Vehicle, error)
}
