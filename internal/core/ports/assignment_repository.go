package ports

import (
	"context"
	"time"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
)

// AssignmentRepository persists Assignment aggregates keyed by parcel id.
// Every method touches a single row and is atomic on its own.
type AssignmentRepository interface {
	// CreateIfAbsent inserts a when no row exists for its parcel id and
	// reports whether it did. An existing row is left untouched.
	CreateIfAbsent(ctx context.Context, a *assignment.Assignment) (bool, error)

	// Save inserts or fully replaces the row for a's parcel id.
	Save(ctx context.Context, a *assignment.Assignment) error

	// Get returns the assignment, or an errs.ObjectNotFoundError.
	Get(ctx context.Context, parcelID kernel.ParcelID) (*assignment.Assignment, error)

	// ListPendingBefore returns up to limit pending assignments created
	// before cutoff, oldest first.
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*assignment.Assignment, error)
}
