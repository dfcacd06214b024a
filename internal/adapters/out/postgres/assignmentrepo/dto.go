// Package assignmentrepo persists assignment aggregates in postgres through
// gorm, mapping them to the "assignments" table.
package assignmentrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
)

// AssignmentDTO is the row shape of an assignment. Timestamps are owned by
// the domain, so gorm's automatic time tracking is disabled.
type AssignmentDTO struct {
	ParcelID  string    `gorm:"column:parcel_id;primaryKey;size:128"`
	VehicleID *string   `gorm:"column:vehicle_id;size:128;index"`
	Status    string    `gorm:"column:status;size:32;not null;index:idx_assignments_status_created,priority:1"`
	Metadata  string    `gorm:"column:metadata;type:jsonb;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false;index:idx_assignments_status_created,priority:2"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (AssignmentDTO) TableName() string {
	return "assignments"
}

func fromDomain(a *assignment.Assignment) (AssignmentDTO, error) {
	metadata, err := json.Marshal(a.Metadata())
	if err != nil {
		return AssignmentDTO{}, fmt.Errorf("encode metadata of parcel %s: %w", a.ParcelID(), err)
	}

	dto := AssignmentDTO{
		ParcelID:  a.ParcelID().String(),
		Status:    a.Status().String(),
		Metadata:  string(metadata),
		CreatedAt: a.CreatedAt().UTC(),
		UpdatedAt: a.UpdatedAt().UTC(),
	}
	if v := a.VehicleID(); v != nil {
		s := v.String()
		dto.VehicleID = &s
	}
	return dto, nil
}

func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	parcelID, err := kernel.ParcelIDFromString(dto.ParcelID)
	if err != nil {
		return nil, err
	}

	var vehicleID *kernel.VehicleID
	if dto.VehicleID != nil {
		v, err := kernel.VehicleIDFromString(*dto.VehicleID)
		if err != nil {
			return nil, err
		}
		vehicleID = &v
	}

	status, err := assignment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var metadata assignment.Metadata
	if dto.Metadata != "" {
		if err := json.Unmarshal([]byte(dto.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("decode metadata of parcel %s: %w", dto.ParcelID, err)
		}
	}

	return assignment.RestoreAssignment(
		parcelID, vehicleID, status, metadata, dto.CreatedAt.UTC(), dto.UpdatedAt.UTC())
}
