package logrepo

import (
	"context"

	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// GormLogRepository implements ports.LogRepository using GORM.
type GormLogRepository struct {
	db *gorm.DB
}

var _ ports.LogRepository = (*GormLogRepository)(nil)

func NewGormLogRepository(db *gorm.DB) *GormLogRepository {
	return &GormLogRepository{db: db}
}

// Append inserts the entry and returns it with the assigned id.
func (r *GormLogRepository) Append(ctx context.Context, entry *logentry.Entry) (*logentry.Entry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	dto, err := fromDomain(entry)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return nil, err
	}
	return entry.WithID(dto.ID), nil
}

// List returns entries newest first.
func (r *GormLogRepository) List(ctx context.Context, filter ports.LogFilter) ([]*logentry.Entry, error) {
	query := r.db.WithContext(ctx).Order("id DESC")
	if filter.ParcelID != "" {
		query = query.Where("parcel_id = ?", filter.ParcelID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var dtos []LogEntryDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]*logentry.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
