package assignmentrepo

import (
	"context"
	"errors"
	"time"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository implements ports.AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db *gorm.DB
}

var _ ports.AssignmentRepository = (*GormAssignmentRepository)(nil)

func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// CreateIfAbsent inserts the row unless the parcel already has one.
func (r *GormAssignmentRepository) CreateIfAbsent(ctx context.Context, a *assignment.Assignment) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}

	dto, err := fromDomain(a)
	if err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "parcel_id"}}, DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Save upserts the whole row.
func (r *GormAssignmentRepository) Save(ctx context.Context, a *assignment.Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(a)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "parcel_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"vehicle_id", "status", "metadata", "created_at", "updated_at"}),
		}).
		Create(&dto).Error
}

func (r *GormAssignmentRepository) Get(ctx context.Context, parcelID kernel.ParcelID) (*assignment.Assignment, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "parcel_id = ?", parcelID.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("parcel_id", parcelID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListPendingBefore returns pending rows created before cutoff, oldest first.
func (r *GormAssignmentRepository) ListPendingBefore(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*assignment.Assignment, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", assignment.Pending.String(), cutoff.UTC()).
		Order("created_at, parcel_id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []AssignmentDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	result := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}
