package collaborators

import (
	"context"
	"errors"
	"time"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
)

// AssignmentStore implements the assignment store operations on top of an
// AssignmentRepository. Read-modify-write sequences are not locked:
// concurrent writers to the same parcel resolve last-write-wins.
type AssignmentStore struct {
	repo ports.AssignmentRepository
	now  func() time.Time
}

var _ ports.AssignmentStore = (*AssignmentStore)(nil)

func NewAssignmentStore(repo ports.AssignmentRepository, now func() time.Time) *AssignmentStore {
	if now == nil {
		now = time.Now
	}
	return &AssignmentStore{repo: repo, now: now}
}

// CreatePlaceholder inserts a pending row; an existing row is kept.
func (s *AssignmentStore) CreatePlaceholder(ctx context.Context, parcelID kernel.ParcelID) error {
	placeholder, err := assignment.NewPlaceholder(parcelID, s.now())
	if err != nil {
		return err
	}

	_, err = s.repo.CreateIfAbsent(ctx, placeholder)
	return err
}

// AttachVehicle binds vehicleID to an existing parcel and marks it assigned.
func (s *AssignmentStore) AttachVehicle(ctx context.Context, parcelID kernel.ParcelID, vehicleID kernel.VehicleID) error {
	a, err := s.repo.Get(ctx, parcelID)
	if err != nil {
		return err
	}

	if err = a.AttachVehicle(vehicleID, s.now()); err != nil {
		return err
	}

	return s.repo.Save(ctx, a)
}

// Finalize upserts the complete assignment with status assigned.
func (s *AssignmentStore) Finalize(
	ctx context.Context,
	parcelID kernel.ParcelID,
	vehicleID kernel.VehicleID,
	metadata assignment.Metadata,
) error {
	now := s.now()

	a, err := s.repo.Get(ctx, parcelID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		if a, err = assignment.NewAssigned(parcelID, vehicleID, metadata, now); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err = a.Finalize(vehicleID, metadata, now); err != nil {
			return err
		}
	}

	return s.repo.Save(ctx, a)
}

// Get reports absence with found=false.
func (s *AssignmentStore) Get(ctx context.Context, parcelID kernel.ParcelID) (*assignment.Assignment, bool, error) {
	a, err := s.repo.Get(ctx, parcelID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

// UpdateStatus overwrites the status of an existing parcel.
func (s *AssignmentStore) UpdateStatus(ctx context.Context, parcelID kernel.ParcelID, status assignment.Status) error {
	a, err := s.repo.Get(ctx, parcelID)
	if err != nil {
		return err
	}

	if err = a.ChangeStatus(status, s.now()); err != nil {
		return err
	}

	return s.repo.Save(ctx, a)
}
