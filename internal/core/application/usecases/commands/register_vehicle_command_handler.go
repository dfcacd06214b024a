package commands

import (
	"context"
	"errors"
	"time"

	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
)

// RegisterVehicleCommandHandler upserts vehicles. Re-registering keeps the
// first registration time.
type RegisterVehicleCommandHandler struct {
	vehicles ports.VehicleRepository
	now      func() time.Time
}

func NewRegisterVehicleCommandHandler(vehicles ports.VehicleRepository, now func() time.Time) RegisterVehicleCommandHandler {
	if now == nil {
		now = time.Now
	}
	return RegisterVehicleCommandHandler{vehicles: vehicles, now: now}
}

func (h RegisterVehicleCommandHandler) Handle(ctx context.Context, cmd RegisterVehicleCommand) (*vehicle.Vehicle, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	v, err := h.vehicles.Get(ctx, cmd.VehicleID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		if v, err = vehicle.NewVehicle(cmd.VehicleID(), cmd.NotifyURL(), cmd.Available(), h.now()); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err = v.SetNotifyURL(cmd.NotifyURL()); err != nil {
			return nil, err
		}
		if cmd.Available() {
			v.MarkAvailable()
		} else {
			v.MarkUnavailable()
		}
	}

	if err = h.vehicles.Save(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}
