package commands

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"strings"
	"time"

	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
	"parcel-dispatch/internal/pkg/guard"
)

// ActionAcknowledgmentReceived is logged for every acknowledgement.
const ActionAcknowledgmentReceived = "acknowledgment_received"

var ErrAcknowledgeNotificationCommandIsNotConstructed = errors.New(
	"AcknowledgeNotificationCommand must be created via NewAcknowledgeNotificationCommand constructor",
)

// AcknowledgeNotificationCommand records that a peer (a vehicle or the
// requester) confirmed receipt of a notification.
type AcknowledgeNotificationCommand struct {
	source   string
	parcelID string
	detail   map[string]any

	guard guard.ConstructorGuard
}

func NewAcknowledgeNotificationCommand(source, parcelID string, detail map[string]any) (AcknowledgeNotificationCommand, error) {
	if strings.TrimSpace(source) == "" {
		return AcknowledgeNotificationCommand{}, errs.NewValueIsRequiredError("source")
	}
	return AcknowledgeNotificationCommand{
		source:   strings.TrimSpace(source),
		parcelID: strings.TrimSpace(parcelID),
		detail:   maps.Clone(detail),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AcknowledgeNotificationCommand) Validate() error {
	return c.guard.Validate(ErrAcknowledgeNotificationCommandIsNotConstructed)
}

func (c AcknowledgeNotificationCommand) Source() string {
	return c.source
}

func (c AcknowledgeNotificationCommand) ParcelID() string {
	return c.parcelID
}

// AcknowledgeNotificationCommandHandler logs acknowledgements. It answers
// "received" even when the log write fails.
type AcknowledgeNotificationCommandHandler struct {
	journal journal
}

func NewAcknowledgeNotificationCommandHandler(
	eventLog ports.EventLog,
	timeout time.Duration,
	now func() time.Time,
	logger *slog.Logger,
) *AcknowledgeNotificationCommandHandler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AcknowledgeNotificationCommandHandler{
		journal: journal{
			eventLog: eventLog,
			timeout:  timeout,
			now:      now,
			logger:   logger.With("component", "orchestrator"),
		},
	}
}

func (h *AcknowledgeNotificationCommandHandler) Handle(ctx context.Context, cmd AcknowledgeNotificationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	detail := map[string]any{"from": cmd.source}
	if cmd.parcelID != "" {
		detail[logentry.ParcelIDKey] = cmd.parcelID
	}
	if len(cmd.detail) > 0 {
		detail["detail"] = maps.Clone(cmd.detail)
	}

	h.journal.record(ctx, ActionAcknowledgmentReceived, logentry.LevelInfo, detail)
	return nil
}
