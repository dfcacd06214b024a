package assignment

import (
	"errors"
	"fmt"
	"time"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/pkg/errs"
	"parcel-dispatch/internal/pkg/guard"
)

// ErrAssignmentIsNotConstructed is returned when an Assignment was not built
// by NewPlaceholder, NewAssigned or RestoreAssignment.
var ErrAssignmentIsNotConstructed = errors.New(
	"Assignment must be created via NewPlaceholder, NewAssigned or RestoreAssignment")

// Assignment is the aggregate root binding a parcel to a vehicle.
//
// Invariants:
//   - parcelID is valid and immutable
//   - vehicleID is nil until attached and immutable afterwards
//   - status is valid, and statuses implying a vehicle have one
//   - updatedAt is never before createdAt
type Assignment struct {
	parcelID  kernel.ParcelID
	vehicleID *kernel.VehicleID
	status    Status
	metadata  Metadata
	createdAt time.Time
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewPlaceholder creates the pending, vehicle-less record the id generator
// persists before handing out a parcel id.
//
// Example:
//
//	placeholder, err := assignment.NewPlaceholder(kernel.NewParcelID(), time.Now())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(placeholder.Status()) // "pending"
func NewPlaceholder(parcelID kernel.ParcelID, now time.Time) (*Assignment, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	return &Assignment{
		parcelID:  parcelID,
		status:    Pending,
		metadata:  Metadata{},
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// NewAssigned creates a complete assignment in one go. It backs the
// finalize upsert when no placeholder exists for the parcel.
func NewAssigned(
	parcelID kernel.ParcelID,
	vehicleID kernel.VehicleID,
	metadata Metadata,
	now time.Time,
) (*Assignment, error) {
	a, err := NewPlaceholder(parcelID, now)
	if err != nil {
		return nil, err
	}

	if err = a.Finalize(vehicleID, metadata, now); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAssignment rebuilds an aggregate from persisted state and checks
// the invariants again, so corrupted rows surface as validation errors.
func RestoreAssignment(
	parcelID kernel.ParcelID,
	vehicleID *kernel.VehicleID,
	status Status,
	metadata Metadata,
	createdAt time.Time,
	updatedAt time.Time,
) (*Assignment, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	if vehicleID != nil {
		if err := vehicleID.Validate(); err != nil {
			return nil, err
		}
		v := *vehicleID
		vehicleID = &v
	}

	if err := status.Validate(); err != nil {
		return nil, err
	}

	if updatedAt.Before(createdAt) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"updated_at",
			fmt.Errorf("%s is before created_at %s", updatedAt.Format(time.RFC3339), createdAt.Format(time.RFC3339)),
		)
	}

	return &Assignment{
		parcelID:  parcelID,
		vehicleID: vehicleID,
		status:    status,
		metadata:  metadata.Clone(),
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the aggregate was built through a constructor.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

func (a *Assignment) ParcelID() kernel.ParcelID {
	return a.parcelID
}

// VehicleID returns a copy of the attached vehicle, or nil when none is attached.
func (a *Assignment) VehicleID() *kernel.VehicleID {
	if a.vehicleID == nil {
		return nil
	}
	v := *a.vehicleID
	return &v
}

func (a *Assignment) Status() Status {
	return a.status
}

// Metadata returns a copy of the request details.
func (a *Assignment) Metadata() Metadata {
	return a.metadata.Clone()
}

func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Assignment) UpdatedAt() time.Time {
	return a.updatedAt
}

// AttachVehicle binds vehicleID and moves the assignment to Assigned.
// Attaching the vehicle that is already attached is a no-op apart from the
// timestamp; attaching a different one fails with ErrVehicleAlreadyAttached.
func (a *Assignment) AttachVehicle(vehicleID kernel.VehicleID, now time.Time) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	if a.vehicleID != nil && !a.vehicleID.IsEqual(vehicleID) {
		return fmt.Errorf("%w: parcel %s is bound to vehicle %s, refusing %s",
			errs.ErrVehicleAlreadyAttached, a.parcelID, a.vehicleID, vehicleID)
	}

	a.vehicleID = &vehicleID
	a.status = Assigned
	a.touch(now)
	return nil
}

// Finalize attaches vehicleID, replaces the metadata and sets Assigned.
// Repeating it with the same vehicle overwrites the record.
func (a *Assignment) Finalize(vehicleID kernel.VehicleID, metadata Metadata, now time.Time) error {
	if err := a.AttachVehicle(vehicleID, now); err != nil {
		return err
	}

	a.metadata = metadata.Clone()
	return nil
}

// ChangeStatus overwrites the status. Any valid status may follow any other
// and the attached vehicle, if any, is left untouched.
func (a *Assignment) ChangeStatus(status Status, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}

	a.status = status
	a.touch(now)
	return nil
}

func (a *Assignment) touch(now time.Time) {
	if now.Before(a.createdAt) {
		now = a.createdAt
	}
	a.updatedAt = now
}
