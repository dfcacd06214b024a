package services

import (
	"cmp"
	"slices"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/pkg/errs"
)

// VehicleSelector decides which vehicle serves a parcel.
//
// Business rules:
//   - A preferred vehicle is returned when it is registered, whether or not
//     it is currently available
//   - An unknown preferred vehicle is an ObjectNotFoundError
//   - Without a preference the available vehicle with the smallest id wins
//   - No available vehicle yields errs.ErrNoVehicleAvailable
//
// Example usage:
//
//	selector := services.NewVehicleSelector()
//	chosen, err := selector.Select(nil, inventory)
//	if errors.Is(err, errs.ErrNoVehicleAvailable) {
//	    // fleet is busy
//	}
type VehicleSelector struct{}

func NewVehicleSelector() VehicleSelector {
	return VehicleSelector{}
}

// Select applies the rules above to the given inventory. The inventory is
// not modified.
func (s VehicleSelector) Select(preferred *kernel.VehicleID, inventory []*vehicle.Vehicle) (*vehicle.Vehicle, error) {
	for _, v := range inventory {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	if preferred != nil {
		return s.findPreferred(*preferred, inventory)
	}

	return s.findFirstAvailable(inventory)
}

func (s VehicleSelector) findPreferred(preferred kernel.VehicleID, inventory []*vehicle.Vehicle) (*vehicle.Vehicle, error) {
	if err := preferred.Validate(); err != nil {
		return nil, err
	}

	for _, v := range inventory {
		if v.ID().IsEqual(preferred) {
			return v, nil
		}
	}

	return nil, errs.NewObjectNotFoundError("vehicle_id", preferred.String())
}

func (s VehicleSelector) findFirstAvailable(inventory []*vehicle.Vehicle) (*vehicle.Vehicle, error) {
	available := make([]*vehicle.Vehicle, 0, len(inventory))
	for _, v := range inventory {
		if v.IsAvailable() {
			available = append(available, v)
		}
	}

	if len(available) == 0 {
		return nil, errs.ErrNoVehicleAvailable
	}

	return slices.MinFunc(available, func(a, b *vehicle.Vehicle) int {
		return cmp.Compare(a.ID().String(), b.ID().String())
	}), nil
}
