// Package commands contains business operations that modify system state.
// The delivery orchestrator lives here as the AssignDelivery and
// ReportUpdate command handlers; the remaining commands manage the vehicle
// inventory and housekeeping.
package commands

import (
	"context"
	"log/slog"
	"time"

	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/callpolicy"
)

// OrchestratorSource is the source recorded on every orchestrator log entry.
const OrchestratorSource = "Orchestrator"

// Collaborators groups the services driven by the orchestrator.
type Collaborators struct {
	IDGenerator         ports.IDGenerator
	VehicleRegistry     ports.VehicleRegistry
	AssignmentStore     ports.AssignmentStore
	NotificationGateway ports.NotificationGateway
	EventLog            ports.EventLog
}

// Timeouts bound downstream calls. Call applies to the id generator,
// registry acquisition, the store and the event log; Notify applies to the
// vehicle and requester notifications.
type Timeouts struct {
	Call   time.Duration
	Notify time.Duration
}

// DefaultTimeouts returns the timeouts used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{Call: callpolicy.DefaultTimeout, Notify: callpolicy.DefaultTimeout}
}

// journal appends orchestrator entries to the event log under the soft
// call policy. Entries are written even after the caller's context is
// cancelled; only the timeout bounds them.
type journal struct {
	eventLog ports.EventLog
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func (j journal) record(ctx context.Context, action string, level logentry.Level, detail map[string]any) {
	entry, err := logentry.NewEntry(OrchestratorSource, action, level, detail, j.now())
	if err != nil {
		j.logger.WarnContext(ctx, "cannot build log entry", "action", action, "error", err)
		return
	}

	callpolicy.Soft(context.WithoutCancel(ctx), j.logger, "event log", j.timeout, func(ctx context.Context) error {
		j.eventLog.Append(ctx, entry)
		return nil
	})
}

func outcomeDetail(detail map[string]any, outcome callpolicy.Outcome) map[string]any {
	if outcome.OK() {
		detail["status"] = "ok"
		return detail
	}
	detail["status"] = "failed"
	detail["error"] = outcome.Err.Error()
	if outcome.TimedOut() {
		detail["timed_out"] = true
	}
	return detail
}
