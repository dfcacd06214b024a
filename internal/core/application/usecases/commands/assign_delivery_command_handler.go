package commands

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/domain/model/notification"
	"parcel-dispatch/internal/core/domain/model/workflow"
	"parcel-dispatch/internal/pkg/callpolicy"
)

// Actions of the terminal log entry of a run.
const (
	ActionWorkflowCompleted = "workflow_completed"
	ActionWorkflowFailed    = "workflow_failed"
)

// AssignmentResult identifies the committed assignment.
type AssignmentResult struct {
	ParcelID  kernel.ParcelID
	VehicleID kernel.VehicleID
}

// AssignDeliveryCommandHandler runs the assignment workflow:
//
//  1. generate a parcel id          (hard, IdGenUnavailable)
//  2. acquire a vehicle             (hard, VehicleUnavailable)
//  3. finalize the assignment       (hard, StoreUnavailable)
//  4. notify the vehicle            (soft)
//  5. notify the requester          (soft)
//
// Every executed step is logged, followed by workflow_completed or
// workflow_failed. The result is returned once step 3 commits.
type AssignDeliveryCommandHandler struct {
	collaborators Collaborators
	timeouts      Timeouts
	now           func() time.Time
	journal       journal
	logger        *slog.Logger
}

func NewAssignDeliveryCommandHandler(
	collaborators Collaborators,
	timeouts Timeouts,
	now func() time.Time,
	logger *slog.Logger,
) *AssignDeliveryCommandHandler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "orchestrator")

	return &AssignDeliveryCommandHandler{
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

func (h *AssignDeliveryCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryCommand) (AssignmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentResult{}, err
	}

	run := workflow.NewInstance()
	metadata := cmd.Metadata()

	var parcelID kernel.ParcelID
	err := callpolicy.Hard(ctx, "id generator", h.timeouts.Call, func(ctx context.Context) error {
		id, err := h.collaborators.IDGenerator.Generate(ctx, metadata)
		if err != nil {
			return err
		}
		parcelID = id
		return nil
	})
	if err != nil {
		return AssignmentResult{}, h.fail(ctx, run, workflow.StepGenerateParcelID, map[string]any{}, err)
	}
	h.complete(ctx, run, workflow.StepGenerateParcelID, map[string]any{"parcel_id": parcelID.String()})

	preferred := cmd.PreferredVehicle()
	var vehicleID kernel.VehicleID
	err = callpolicy.Hard(ctx, "vehicle registry", h.timeouts.Call, func(ctx context.Context) error {
		id, err := h.collaborators.VehicleRegistry.Acquire(ctx, parcelID, preferred)
		if err != nil {
			return err
		}
		vehicleID = id
		return nil
	})
	acquireDetail := map[string]any{"parcel_id": parcelID.String(), "preferred": preferred != nil}
	if preferred != nil {
		acquireDetail["preferred_vehicle"] = preferred.String()
	}
	if err != nil {
		return AssignmentResult{}, h.fail(ctx, run, workflow.StepAcquireVehicle, acquireDetail, err)
	}
	acquireDetail["vehicle_id"] = vehicleID.String()
	h.complete(ctx, run, workflow.StepAcquireVehicle, acquireDetail)

	ids := map[string]any{"parcel_id": parcelID.String(), "vehicle_id": vehicleID.String()}

	err = callpolicy.Hard(ctx, "assignment store", h.timeouts.Call, func(ctx context.Context) error {
		return h.collaborators.AssignmentStore.Finalize(ctx, parcelID, vehicleID, metadata)
	})
	if err != nil {
		return AssignmentResult{}, h.fail(ctx, run, workflow.StepFinalizeAssignment, maps.Clone(ids), err)
	}
	h.complete(ctx, run, workflow.StepFinalizeAssignment, maps.Clone(ids))

	// The assignment is committed; the remaining steps run to completion
	// even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	outcome := callpolicy.Soft(ctx, h.logger, "vehicle notify", h.timeouts.Notify, func(ctx context.Context) error {
		return h.collaborators.VehicleRegistry.Notify(ctx, parcelID, vehicleID, metadata)
	})
	h.complete(ctx, run, workflow.StepNotifyVehicle, outcomeDetail(maps.Clone(ids), outcome))

	event := notification.NewAssignedEvent(parcelID, vehicleID, metadata, cmd.CallbackURL(), h.now())
	outcome = callpolicy.Soft(ctx, h.logger, "requester notify", h.timeouts.Notify, func(ctx context.Context) error {
		return h.collaborators.NotificationGateway.Relay(ctx, event)
	})
	h.complete(ctx, run, workflow.StepNotifyRequester, outcomeDetail(maps.Clone(ids), outcome))

	if err = run.Finish(); err != nil {
		h.logger.ErrorContext(ctx, "workflow bookkeeping out of order", "error", err)
	}
	completed := maps.Clone(ids)
	completed["state"] = run.State().String()
	h.journal.record(ctx, ActionWorkflowCompleted, logentry.LevelInfo, completed)

	h.logger.InfoContext(ctx, "delivery assigned",
		"parcel_id", parcelID.String(),
		"vehicle_id", vehicleID.String(),
	)

	return AssignmentResult{ParcelID: parcelID, VehicleID: vehicleID}, nil
}

// complete advances the run past step and logs the step entry. Soft steps
// that failed still advance; their detail carries the failure and the entry
// is logged at error level.
func (h *AssignDeliveryCommandHandler) complete(
	ctx context.Context,
	run *workflow.Instance,
	step workflow.Step,
	detail map[string]any,
) {
	if err := run.Complete(step); err != nil {
		h.logger.ErrorContext(ctx, "workflow bookkeeping out of order", "step", step.String(), "error", err)
	}

	level := logentry.LevelInfo
	if status, ok := detail["status"]; ok && status != "ok" {
		level = logentry.LevelError
	} else if !ok {
		detail["status"] = "ok"
	}
	h.journal.record(ctx, step.String(), level, detail)
}

func (h *AssignDeliveryCommandHandler) fail(
	ctx context.Context,
	run *workflow.Instance,
	step workflow.Step,
	detail map[string]any,
	cause error,
) error {
	reason, _ := step.FailureReason()
	failedIn, err := run.Fail(reason)
	if err != nil {
		h.logger.ErrorContext(ctx, "workflow bookkeeping out of order", "step", step.String(), "error", err)
	}

	detail["status"] = "failed"
	detail["error"] = cause.Error()
	h.journal.record(ctx, step.String(), logentry.LevelError, detail)

	terminal := map[string]any{
		"reason": reason.String(),
		"state":  failedIn.String(),
		"error":  cause.Error(),
	}
	if parcelID, ok := detail["parcel_id"]; ok {
		terminal["parcel_id"] = parcelID
	}
	h.journal.record(ctx, ActionWorkflowFailed, logentry.LevelError, terminal)

	h.logger.WarnContext(ctx, "delivery workflow failed",
		"reason", reason.String(),
		"state", failedIn.String(),
		"error", cause,
	)

	return &WorkflowError{Reason: reason, State: failedIn, Cause: cause}
}
