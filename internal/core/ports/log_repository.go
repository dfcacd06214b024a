package ports

import (
	"context"

	"parcel-dispatch/internal/core/domain/model/logentry"
)

// LogFilter narrows a log listing. An empty ParcelID matches every entry.
type LogFilter struct {
	ParcelID string
	Limit    int
}

// LogRepository is the append-only store behind the event log.
type LogRepository interface {
	// Append stores entry and returns it with its storage id.
	Append(ctx context.Context, entry *logentry.Entry) (*logentry.Entry, error)

	// List returns the most recent entries matching filter, newest first.
	List(ctx context.Context, filter LogFilter) ([]*logentry.Entry, error)
}
