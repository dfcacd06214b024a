package queries

import (
	"context"
	"errors"
	"strings"
	"time"

	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
	"parcel-dispatch/internal/pkg/guard"
)

const (
	DefaultLogLimit = 50
	MaxLogLimit     = 500
)

var ErrListLogsQueryIsNotConstructed = errors.New(
	"ListLogsQuery must be created via NewListLogsQuery constructor",
)

// ListLogsQuery lists recent event log entries, optionally for one parcel.
type ListLogsQuery struct {
	parcelID string
	limit    int
	guard    guard.ConstructorGuard
}

// NewListLogsQuery accepts a limit in [1, MaxLogLimit]; zero selects
// DefaultLogLimit.
func NewListLogsQuery(parcelID string, limit int) (ListLogsQuery, error) {
	if limit == 0 {
		limit = DefaultLogLimit
	}
	if limit < 1 || limit > MaxLogLimit {
		return ListLogsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxLogLimit)
	}
	return ListLogsQuery{
		parcelID: strings.TrimSpace(parcelID),
		limit:    limit,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q ListLogsQuery) Validate() error {
	return q.guard.Validate(ErrListLogsQueryIsNotConstructed)
}

type LogEntryResponse struct {
	ID        int64
	Source    string
	Action    string
	Level     string
	Detail    map[string]any
	Timestamp time.Time
}

type ListLogsQueryHandler struct {
	logs ports.LogRepository
}

func NewListLogsQueryHandler(logs ports.LogRepository) ListLogsQueryHandler {
	return ListLogsQueryHandler{logs: logs}
}

// Handle returns entries newest first.
func (h ListLogsQueryHandler) Handle(ctx context.Context, query ListLogsQuery) ([]LogEntryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries, err := h.logs.List(ctx, ports.LogFilter{ParcelID: query.parcelID, Limit: query.limit})
	if err != nil {
		return nil, err
	}

	response := make([]LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, LogEntryResponse{
			ID:        e.ID(),
			Source:    e.Source(),
			Action:    e.Action(),
			Level:     e.Level().String(),
			Detail:    e.Detail(),
			Timestamp: e.Timestamp(),
		})
	}
	return response, nil
}
