package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
)

type assignmentRecord struct {
	parcelID  string
	vehicleID string
	status    assignment.Status
	metadata  assignment.Metadata
	createdAt time.Time
	updatedAt time.Time
}

// AssignmentRepository keeps assignments in a map keyed by parcel id.
type AssignmentRepository struct {
	mu      sync.RWMutex
	records map[string]assignmentRecord
}

var _ ports.AssignmentRepository = (*AssignmentRepository)(nil)

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{records: make(map[string]assignmentRecord)}
}

func (r *AssignmentRepository) CreateIfAbsent(_ context.Context, a *assignment.Assignment) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := a.ParcelID().String()
	if _, ok := r.records[key]; ok {
		return false, nil
	}
	r.records[key] = snapshotAssignment(a)
	return true, nil
}

func (r *AssignmentRepository) Save(_ context.Context, a *assignment.Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[a.ParcelID().String()] = snapshotAssignment(a)
	return nil
}

func (r *AssignmentRepository) Get(_ context.Context, parcelID kernel.ParcelID) (*assignment.Assignment, error) {
	r.mu.RLock()
	rec, ok := r.records[parcelID.String()]
	r.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("parcel_id", parcelID.String())
	}
	return rec.restore()
}

func (r *AssignmentRepository) ListPendingBefore(
	_ context.Context,
	cutoff time.Time,
	limit int,
) ([]*assignment.Assignment, error) {
	r.mu.RLock()
	var pending []assignmentRecord
	for _, rec := range r.records {
		if rec.status == assignment.Pending && rec.createdAt.Before(cutoff) {
			pending = append(pending, rec)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(pending, func(a, b assignmentRecord) int {
		if c := a.createdAt.Compare(b.createdAt); c != 0 {
			return c
		}
		return cmp.Compare(a.parcelID, b.parcelID)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	result := make([]*assignment.Assignment, 0, len(pending))
	for _, rec := range pending {
		a, err := rec.restore()
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

func snapshotAssignment(a *assignment.Assignment) assignmentRecord {
	rec := assignmentRecord{
		parcelID:  a.ParcelID().String(),
		status:    a.Status(),
		metadata:  a.Metadata(),
		createdAt: a.CreatedAt(),
		updatedAt: a.UpdatedAt(),
	}
	if v := a.VehicleID(); v != nil {
		rec.vehicleID = v.String()
	}
	return rec
}

func (rec assignmentRecord) restore() (*assignment.Assignment, error) {
	parcelID, err := kernel.ParcelIDFromString(rec.parcelID)
	if err != nil {
		return nil, err
	}

	var vehicleID *kernel.VehicleID
	if rec.vehicleID != "" {
		v, err := kernel.VehicleIDFromString(rec.vehicleID)
		if err != nil {
			return nil, err
		}
		vehicleID = &v
	}

	return assignment.RestoreAssignment(parcelID, vehicleID, rec.status, rec.metadata, rec.createdAt, rec.updatedAt)
}
