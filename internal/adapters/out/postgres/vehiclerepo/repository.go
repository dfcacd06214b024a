// Package vehiclerepo keeps the vehicle inventory in the postgres
// "vehicles" table.
package vehiclerepo

import (
	"context"
	"errors"
	"time"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VehicleDTO struct {
	ID           string    `gorm:"column:id;primaryKey;size:128"`
	Available    bool      `gorm:"column:available;not null"`
	NotifyURL    string    `gorm:"column:notify_url;size:2048"`
	RegisteredAt time.Time `gorm:"column:registered_at;not null"`
}

func (VehicleDTO) TableName() string {
	return "vehicles"
}

// GormVehicleRepository implements ports.VehicleRepository using GORM.
type GormVehicleRepository struct {
	db *gorm.DB
}

var _ ports.VehicleRepository = (*GormVehicleRepository)(nil)

func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// Save inserts or replaces the vehicle.
func (r *GormVehicleRepository) Save(ctx context.Context, v *vehicle.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}

	dto := VehicleDTO{
		ID:           v.ID().String(),
		Available:    v.IsAvailable(),
		NotifyURL:    v.NotifyURL(),
		RegisteredAt: v.RegisteredAt().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"available", "notify_url", "registered_at"}),
		}).
		Create(&dto).Error
}

func (r *GormVehicleRepository) Get(ctx context.Context, id kernel.VehicleID) (*vehicle.Vehicle, error) {
	var dto VehicleDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vehicle_id", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// List returns the inventory ordered by id.
func (r *GormVehicleRepository) List(ctx context.Context) ([]*vehicle.Vehicle, error) {
	var dtos []VehicleDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	vehicles := make([]*vehicle.Vehicle, 0, len(dtos))
	for _, dto := range dtos {
		v, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

func toDomain(dto VehicleDTO) (*vehicle.Vehicle, error) {
	id, err := kernel.VehicleIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	return vehicle.RestoreVehicle(id, dto.NotifyURL, dto.Available, dto.RegisteredAt.UTC())
}
