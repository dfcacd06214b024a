package collaborators

import (
	"context"
	"log/slog"

	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/ports"
)

// EventLog appends entries to a LogRepository. Write failures are logged
// and swallowed.
type EventLog struct {
	repo   ports.LogRepository
	logger *slog.Logger
}

var _ ports.EventLog = (*EventLog)(nil)

func NewEventLog(repo ports.LogRepository, logger *slog.Logger) *EventLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLog{repo: repo, logger: logger.With("component", "event_log")}
}

func (l *EventLog) Append(ctx context.Context, entry *logentry.Entry) {
	if err := entry.Validate(); err != nil {
		l.logger.WarnContext(ctx, "dropping malformed log entry", "error", err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			l.logger.ErrorContext(ctx, "event log write panicked", "action", entry.Action(), "panic", r)
		}
	}()

	if _, err := l.repo.Append(ctx, entry); err != nil {
		l.logger.ErrorContext(ctx, "event log write failed",
			"source", entry.Source(),
			"action", entry.Action(),
			"error", err,
		)
	}
}

// Entries lists recent entries, newest first.
func (l *EventLog) Entries(ctx context.Context, filter ports.LogFilter) ([]*logentry.Entry, error) {
	return l.repo.List(ctx, filter)
}
