package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
	"parcel-dispatch/internal/pkg/guard"
)

// ExpiredPlaceholderReason is the detail reason reported for swept placeholders.
const ExpiredPlaceholderReason = "placeholder_expired"

var ErrExpirePlaceholdersCommandIsNotConstructed = errors.New(
	"ExpirePlaceholdersCommand must be created via NewExpirePlaceholdersCommand constructor",
)

// ExpirePlaceholdersCommand fails pending placeholders older than ttl. They
// are left behind when a run aborts after generating the parcel id.
type ExpirePlaceholdersCommand struct {
	ttl       time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpirePlaceholdersCommand(ttl time.Duration, batchSize int) (ExpirePlaceholdersCommand, error) {
	if ttl <= 0 {
		return ExpirePlaceholdersCommand{}, errs.NewValueIsOutOfRangeError("ttl", ttl, time.Nanosecond, "unbounded")
	}
	if batchSize <= 0 {
		return ExpirePlaceholdersCommand{}, errs.NewValueIsOutOfRangeError("batch_size", batchSize, 1, "unbounded")
	}
	return ExpirePlaceholdersCommand{ttl: ttl, batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpirePlaceholdersCommand) Validate() error {
	return c.guard.Validate(ErrExpirePlaceholdersCommandIsNotConstructed)
}

// UpdateReporter is the part of the orchestrator the sweeper needs.
type UpdateReporter interface {
	Handle(ctx context.Context, cmd ReportUpdateCommand) (UpdateResult, error)
}

// ExpirePlaceholdersCommandHandler routes every stale placeholder through
// the update workflow, so the change is logged and relayed like any other
// status update.
type ExpirePlaceholdersCommandHandler struct {
	assignments ports.AssignmentRepository
	reporter    UpdateReporter
	now         func() time.Time
	logger      *slog.Logger
}

func NewExpirePlaceholdersCommandHandler(
	assignments ports.AssignmentRepository,
	reporter UpdateReporter,
	now func() time.Time,
	logger *slog.Logger,
) ExpirePlaceholdersCommandHandler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return ExpirePlaceholdersCommandHandler{
		assignments: assignments,
		reporter:    reporter,
		now:         now,
		logger:      logger.With("component", "placeholder_sweeper"),
	}
}

// Handle returns the number of placeholders marked failed.
func (h ExpirePlaceholdersCommandHandler) Handle(ctx context.Context, cmd ExpirePlaceholdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	cutoff := h.now().Add(-cmd.ttl)
	stale, err := h.assignments.ListPendingBefore(ctx, cutoff, cmd.batchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, a := range stale {
		update, err := NewReportUpdateCommand(a.ParcelID().String(), assignment.Failed.String(), map[string]any{
			"reason":     ExpiredPlaceholderReason,
			"created_at": a.CreatedAt().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return expired, err
		}

		if _, err = h.reporter.Handle(ctx, update); err != nil {
			return expired, err
		}

		// The update is acknowledged even when the store write fails, so
		// only rows read back as failed are counted.
		current, err := h.assignments.Get(ctx, a.ParcelID())
		if err != nil {
			h.logger.WarnContext(ctx, "cannot confirm expired placeholder",
				"parcel_id", a.ParcelID().String(), "error", err)
			continue
		}
		if current.Status() == assignment.Failed {
			expired++
		}
	}

	if len(stale) > 0 {
		h.logger.InfoContext(ctx, "expired stale placeholders",
			"count", expired, "swept", len(stale), "cutoff", cutoff)
	}
	return expired, nil
}
