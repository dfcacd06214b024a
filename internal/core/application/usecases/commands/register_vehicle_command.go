package commands

import (
	"errors"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/pkg/guard"
)

var ErrRegisterVehicleCommandIsNotConstructed = errors.New(
	"RegisterVehicleCommand must be created via NewRegisterVehicleCommand constructor",
)

// RegisterVehicleCommand adds a vehicle to the inventory or updates an
// existing one.
type RegisterVehicleCommand struct {
	vehicleID kernel.VehicleID
	notifyURL string
	available bool

	guard guard.ConstructorGuard
}

func NewRegisterVehicleCommand(vehicleID, notifyURL string, available bool) (RegisterVehicleCommand, error) {
	id, err := kernel.VehicleIDFromString(vehicleID)
	if err != nil {
		return RegisterVehicleCommand{}, err
	}

	return RegisterVehicleCommand{
		vehicleID: id,
		notifyURL: notifyURL,
		available: available,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterVehicleCommand) Validate() error {
	return c.guard.Validate(ErrRegisterVehicleCommandIsNotConstructed)
}

func (c RegisterVehicleCommand) VehicleID() kernel.VehicleID {
	return c.vehicleID
}

func (c RegisterVehicleCommand) NotifyURL() string {
	return c.notifyURL
}

func (c RegisterVehicleCommand) Available() bool {
	return c.available
}
