// Package redis keeps the vehicle inventory in Redis.
//
// Key layout:
//
//	<prefix>vehicle:<id>   => JSON-encoded vehicle payload
//	<prefix>idx:vehicles   => SET of all vehicle ids
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"

	goredis "github.com/redis/go-redis/v9"
)

const DefaultPrefix = "dispatch:"

type vehiclePayload struct {
	ID           string    `json:"id"`
	Available    bool      `json:"available"`
	NotifyURL    string    `json:"notify_url,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// VehicleRepository implements ports.VehicleRepository on a Redis client.
type VehicleRepository struct {
	client goredis.UniversalClient
	prefix string
}

var _ ports.VehicleRepository = (*VehicleRepository)(nil)

// NewVehicleRepository uses DefaultPrefix when prefix is empty.
func NewVehicleRepository(client goredis.UniversalClient, prefix string) *VehicleRepository {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &VehicleRepository{client: client, prefix: prefix}
}

func (r *VehicleRepository) keyVehicle(id string) string {
	return r.prefix + "vehicle:" + id
}

func (r *VehicleRepository) keyIndex() string {
	return r.prefix + "idx:vehicles"
}

func (r *VehicleRepository) Save(ctx context.Context, v *vehicle.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(vehiclePayload{
		ID:           v.ID().String(),
		Available:    v.IsAvailable(),
		NotifyURL:    v.NotifyURL(),
		RegisteredAt: v.RegisteredAt().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode vehicle %s: %w", v.ID(), err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.keyVehicle(v.ID().String()), data, 0)
	pipe.SAdd(ctx, r.keyIndex(), v.ID().String())
	_, err = pipe.Exec(ctx)
	return err
}

func (r *VehicleRepository) Get(ctx context.Context, id kernel.VehicleID) (*vehicle.Vehicle, error) {
	data, err := r.client.Get(ctx, r.keyVehicle(id.String())).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, errs.NewObjectNotFoundError("vehicle_id", id.String())
		}
		return nil, err
	}
	return decodeVehicle(data)
}

// List returns the inventory ordered by id. Index members whose payload has
// disappeared are skipped.
func (r *VehicleRepository) List(ctx context.Context) ([]*vehicle.Vehicle, error) {
	ids, err := r.client.SMembers(ctx, r.keyIndex()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*vehicle.Vehicle{}, nil
	}
	slices.Sort(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.keyVehicle(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	vehicles := make([]*vehicle.Vehicle, 0, len(values))
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			continue
		}
		v, err := decodeVehicle([]byte(s))
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

func decodeVehicle(data []byte) (*vehicle.Vehicle, error) {
	var payload vehiclePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode vehicle payload: %w", err)
	}

	id, err := kernel.VehicleIDFromString(payload.ID)
	if err != nil {
		return nil, err
	}
	return vehicle.RestoreVehicle(id, payload.NotifyURL, payload.Available, payload.RegisteredAt)
}
