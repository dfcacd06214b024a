package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
)

type vehicleRecord struct {
	id           string
	available    bool
	notifyURL    string
	registeredAt time.Time
}

// VehicleRepository keeps the inventory in a map keyed by vehicle id.
type VehicleRepository struct {
	mu      sync.RWMutex
	records map[string]vehicleRecord
}

var _ ports.VehicleRepository = (*VehicleRepository)(nil)

func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{records: make(map[string]vehicleRecord)}
}

func (r *VehicleRepository) Save(_ context.Context, v *vehicle.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[v.ID().String()] = vehicleRecord{
		id:           v.ID().String(),
		available:    v.IsAvailable(),
		notifyURL:    v.NotifyURL(),
		registeredAt: v.RegisteredAt(),
	}
	return nil
}

func (r *VehicleRepository) Get(_ context.Context, id kernel.VehicleID) (*vehicle.Vehicle, error) {
	r.mu.RLock()
	rec, ok := r.records[id.String()]
	r.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("vehicle_id", id.String())
	}
	return rec.restore()
}

func (r *VehicleRepository) List(_ context.Context) ([]*vehicle.Vehicle, error) {
	r.mu.RLock()
	records := make([]vehicleRecord, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}
	r.mu.RUnlock()

	slices.SortFunc(records, func(a, b vehicleRecord) int {
		return cmp.Compare(a.id, b.id)
	})

	result := make([]*vehicle.Vehicle, 0, len(records))
	for _, rec := range records {
		v, err := rec.restore()
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

func (rec vehicleRecord) restore() (*vehicle.Vehicle, error) {
	id, err := kernel.VehicleIDFromString(rec.id)
	if err != nil {
		return nil, err
	}
	return vehicle.RestoreVehicle(id, rec.notifyURL, rec.available, rec.registeredAt)
}
