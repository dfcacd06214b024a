package memory

import (
	"context"
	"sync"

	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/ports"
)

// LogRepository is an append-only slice of entries with sequential ids.
type LogRepository struct {
	mu      sync.RWMutex
	entries []*logentry.Entry
}

var _ ports.LogRepository = (*LogRepository)(nil)

func NewLogRepository() *LogRepository {
	return &LogRepository{}
}

func (r *LogRepository) Append(_ context.Context, entry *logentry.Entry) (*logentry.Entry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := entry.WithID(int64(len(r.entries) + 1))
	r.entries = append(r.entries, stored)
	return stored.WithID(stored.ID()), nil
}

func (r *LogRepository) List(_ context.Context, filter ports.LogFilter) ([]*logentry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*logentry.Entry
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if filter.ParcelID != "" {
			if parcelID, ok := e.ParcelID(); !ok || parcelID != filter.ParcelID {
				continue
			}
		}
		result = append(result, e.WithID(e.ID()))
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}
