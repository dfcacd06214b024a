package collaborators

import (
	"context"
	"errors"
	"log/slog"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/core/domain/services"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
)

// VehicleRegistry selects vehicles from an injected inventory and forwards
// assignment notifications to them.
//
// Acquiring a vehicle does not change its availability; operators toggle
// that through the inventory.
type VehicleRegistry struct {
	vehicles         ports.VehicleRepository
	store            ports.AssignmentStore
	webhook          ports.WebhookSender
	selector         services.VehicleSelector
	defaultNotifyURL string
	logger           *slog.Logger
}

var _ ports.VehicleRegistry = (*VehicleRegistry)(nil)

// NewVehicleRegistry wires a registry. defaultNotifyURL is used for vehicles
// without their own endpoint; when both are empty Notify only logs.
func NewVehicleRegistry(
	vehicles ports.VehicleRepository,
	store ports.AssignmentStore,
	webhook ports.WebhookSender,
	defaultNotifyURL string,
	logger *slog.Logger,
) *VehicleRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &VehicleRegistry{
		vehicles:         vehicles,
		store:            store,
		webhook:          webhook,
		selector:         services.NewVehicleSelector(),
		defaultNotifyURL: defaultNotifyURL,
		logger:           logger.With("component", "vehicle_registry"),
	}
}

// Acquire picks a vehicle for parcelID and attaches it in the assignment
// store. An unknown preferred vehicle fails with ObjectNotFoundError before
// the store is touched.
func (r *VehicleRegistry) Acquire(
	ctx context.Context,
	parcelID kernel.ParcelID,
	preferred *kernel.VehicleID,
) (kernel.VehicleID, error) {
	inventory, err := r.vehicles.List(ctx)
	if err != nil {
		return kernel.VehicleID{}, errs.NewDependencyUnavailableErrorWithCause("vehicle inventory", err)
	}

	chosen, err := r.selector.Select(preferred, inventory)
	if err != nil {
		return kernel.VehicleID{}, err
	}

	if err = r.store.AttachVehicle(ctx, parcelID, chosen.ID()); err != nil {
		return kernel.VehicleID{}, err
	}

	r.logger.InfoContext(ctx, "vehicle acquired",
		"parcel_id", parcelID.String(),
		"vehicle_id", chosen.ID().String(),
		"preferred", preferred != nil,
	)
	return chosen.ID(), nil
}

// Notify sends the assignment to the vehicle's endpoint.
func (r *VehicleRegistry) Notify(
	ctx context.Context,
	parcelID kernel.ParcelID,
	vehicleID kernel.VehicleID,
	metadata assignment.Metadata,
) error {
	url, err := r.notifyURL(ctx, vehicleID)
	if err != nil {
		return err
	}

	if url == "" || r.webhook == nil {
		r.logger.DebugContext(ctx, "no vehicle endpoint configured, notification acknowledged locally",
			"parcel_id", parcelID.String(),
			"vehicle_id", vehicleID.String(),
		)
		return nil
	}

	return r.webhook.Send(ctx, url, map[string]any{
		"event":      "vehicle_assigned",
		"parcel_id":  parcelID.String(),
		"vehicle_id": vehicleID.String(),
		"metadata":   map[string]any(metadata.Clone()),
	})
}

// Register adds or replaces a vehicle in the inventory.
func (r *VehicleRegistry) Register(ctx context.Context, v *vehicle.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return r.vehicles.Save(ctx, v)
}

// Vehicles lists the inventory ordered by id.
func (r *VehicleRegistry) Vehicles(ctx context.Context) ([]*vehicle.Vehicle, error) {
	return r.vehicles.List(ctx)
}

func (r *VehicleRegistry) notifyURL(ctx context.Context, vehicleID kernel.VehicleID) (string, error) {
	v, err := r.vehicles.Get(ctx, vehicleID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return r.defaultNotifyURL, nil
	case err != nil:
		return "", err
	case v.NotifyURL() != "":
		return v.NotifyURL(), nil
	default:
		return r.defaultNotifyURL, nil
	}
}
