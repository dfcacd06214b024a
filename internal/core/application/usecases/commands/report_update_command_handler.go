package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/domain/model/notification"
	"parcel-dispatch/internal/pkg/callpolicy"
	"parcel-dispatch/internal/pkg/errs"
)

// ActionReportUpdate is the log action of a processed status update.
const ActionReportUpdate = "report_update"

// UpdateResult answers the vehicle side.
type UpdateResult struct {
	Acknowledged bool
}

// ReportUpdateCommandHandler applies a status update reported by the
// vehicle side.
//
// The caller is always acknowledged, including when the parcel is unknown
// or the store is down; such failures are only visible in the event log.
// Concurrent updates to one parcel are not serialized and the last write
// wins.
type ReportUpdateCommandHandler struct {
	collaborators Collaborators
	timeouts      Timeouts
	now           func() time.Time
	journal       journal
	logger        *slog.Logger
}

func NewReportUpdateCommandHandler(
	collaborators Collaborators,
	timeouts Timeouts,
	now func() time.Time,
	logger *slog.Logger,
) *ReportUpdateCommandHandler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "orchestrator")

	return &ReportUpdateCommandHandler{
		collaborators: collaborators,
		timeouts:      timeouts,
		now:           now,
		journal: journal{
			eventLog: collaborators.EventLog,
			timeout:  timeouts.Call,
			now:      now,
			logger:   logger,
		},
		logger: logger,
	}
}

// Handle returns an error only for a command that was not constructed.
func (h *ReportUpdateCommandHandler) Handle(ctx context.Context, cmd ReportUpdateCommand) (UpdateResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateResult{}, err
	}

	result := UpdateResult{Acknowledged: true}

	// The update is acknowledged regardless, so it is applied even if the
	// reporter disconnects.
	ctx = context.WithoutCancel(ctx)

	parcelID := cmd.ParcelID()
	status := cmd.Status()

	persisted := callpolicy.Soft(ctx, h.logger, "assignment store", h.timeouts.Call, func(ctx context.Context) error {
		return h.collaborators.AssignmentStore.UpdateStatus(ctx, parcelID, status)
	})

	event := notification.NewUpdateEvent(parcelID, status, cmd.Detail(), h.now())
	relayed := callpolicy.Soft(ctx, h.logger, "requester notify", h.timeouts.Notify, func(ctx context.Context) error {
		return h.collaborators.NotificationGateway.Relay(ctx, event)
	})

	detail := map[string]any{
		"parcel_id": parcelID.String(),
		"status":    status.String(),
		"persisted": persisted.OK(),
		"relayed":   relayed.OK(),
	}
	if reported := cmd.Detail(); len(reported) > 0 {
		detail["detail"] = reported
	}

	level := logentry.LevelInfo
	if !persisted.OK() {
		level = logentry.LevelError
		detail["error"] = persisted.Err.Error()
		detail["not_found"] = errors.Is(persisted.Err, errs.ErrObjectNotFound)
	}
	h.journal.record(ctx, ActionReportUpdate, level, detail)

	return result, nil
}
