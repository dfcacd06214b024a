package peers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"parcel-dispatch/internal/adapters/peerwire"
	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/domain/model/notification"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
)

type IDGeneratorClient struct{ c client }

var _ ports.IDGenerator = (*IDGeneratorClient)(nil)

func NewIDGeneratorClient(cfg Config) *IDGeneratorClient {
	return &IDGeneratorClient{c: newClient("id generator", cfg)}
}

func (g *IDGeneratorClient) Generate(ctx context.Context, requestContext map[string]any) (kernel.ParcelID, error) {
	var resp peerwire.GenerateParcelIDResponse
	if err := g.c.do(ctx, http.MethodPost, peerwire.PathGenerateParcelID,
		peerwire.GenerateParcelIDRequest{Context: requestContext}, &resp); err != nil {
		return kernel.ParcelID{}, err
	}

	id, err := kernel.ParcelIDFromString(resp.ParcelID)
	if err != nil {
		return kernel.ParcelID{}, errs.NewDependencyUnavailableErrorWithCause(g.c.dependency, err)
	}
	return id, nil
}

type VehicleRegistryClient struct{ c client }

var _ ports.VehicleRegistry = (*VehicleRegistryClient)(nil)

func NewVehicleRegistryClient(cfg Config) *VehicleRegistryClient {
	return &VehicleRegistryClient{c: newClient("vehicle registry", cfg)}
}

func (r *VehicleRegistryClient) Acquire(
	ctx context.Context,
	parcelID kernel.ParcelID,
	preferred *kernel.VehicleID,
) (kernel.VehicleID, error) {
	req := peerwire.AcquireVehicleRequest{ParcelID: parcelID.String()}
	if preferred != nil {
		s := preferred.String()
		req.PreferredVehicle = &s
	}

	var resp peerwire.AcquireVehicleResponse
	if err := r.c.do(ctx, http.MethodPost, peerwire.PathAcquireVehicle, req, &resp); err != nil {
		return kernel.VehicleID{}, err
	}

	id, err := kernel.VehicleIDFromString(resp.VehicleID)
	if err != nil {
		return kernel.VehicleID{}, errs.NewDependencyUnavailableErrorWithCause(r.c.dependency, err)
	}
	return id, nil
}

func (r *VehicleRegistryClient) Notify(
	ctx context.Context,
	parcelID kernel.ParcelID,
	vehicleID kernel.VehicleID,
	metadata assignment.Metadata,
) error {
	return r.c.do(ctx, http.MethodPost, peerwire.PathNotifyVehicle, peerwire.AssignmentRequest{
		ParcelID:  parcelID.String(),
		VehicleID: vehicleID.String(),
		Metadata:  metadata,
	}, nil)
}

type AssignmentStoreClient struct{ c client }

var _ ports.AssignmentStore = (*AssignmentStoreClient)(nil)

func NewAssignmentStoreClient(cfg Config) *AssignmentStoreClient {
	return &AssignmentStoreClient{c: newClient("assignment store", cfg)}
}

func (s *AssignmentStoreClient) CreatePlaceholder(ctx context.Context, parcelID kernel.ParcelID) error {
	return s.c.do(ctx, http.MethodPost, peerwire.PathPlaceholder,
		peerwire.AssignmentRequest{ParcelID: parcelID.String()}, nil)
}

func (s *AssignmentStoreClient) AttachVehicle(ctx context.Context, parcelID kernel.ParcelID, vehicleID kernel.VehicleID) error {
	return s.c.do(ctx, http.MethodPost, peerwire.PathAttachVehicle,
		peerwire.AssignmentRequest{ParcelID: parcelID.String(), VehicleID: vehicleID.String()}, nil)
}

func (s *AssignmentStoreClient) Finalize(
	ctx context.Context,
	parcelID kernel.ParcelID,
	vehicleID kernel.VehicleID,
	metadata assignment.Metadata,
) error {
	return s.c.do(ctx, http.MethodPost, peerwire.PathFinalize, peerwire.AssignmentRequest{
		ParcelID:  parcelID.String(),
		VehicleID: vehicleID.String(),
		Metadata:  metadata,
	}, nil)
}

func (s *AssignmentStoreClient) Get(ctx context.Context, parcelID kernel.ParcelID) (*assignment.Assignment, bool, error) {
	var msg peerwire.AssignmentMessage
	err := s.c.do(ctx, http.MethodGet, peerwire.PathAssignments+url.PathEscape(parcelID.String()), nil, &msg)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	a, err := msg.ToDomain()
	if err != nil {
		return nil, false, errs.NewDependencyUnavailableErrorWithCause(s.c.dependency, err)
	}
	return a, true, nil
}

// UpdateStatus reports an unknown parcel as ObjectNotFoundError, whether
// the peer answers 404 or 200 with status "not_found".
func (s *AssignmentStoreClient) UpdateStatus(ctx context.Context, parcelID kernel.ParcelID, status assignment.Status) error {
	var resp peerwire.StatusResponse
	if err := s.c.do(ctx, http.MethodPost, peerwire.PathUpdateStatus, peerwire.UpdateStatusRequest{
		ParcelID: parcelID.String(),
		Status:   status.String(),
	}, &resp); err != nil {
		return err
	}
	if resp.Status == peerwire.StatusNotFound {
		return errs.NewObjectNotFoundError("parcel_id", parcelID.String())
	}
	return nil
}

// EventLogClient appends entries remotely. Failures are logged and dropped.
type EventLogClient struct {
	c      client
	logger *slog.Logger
}

var _ ports.EventLog = (*EventLogClient)(nil)

func NewEventLogClient(cfg Config, logger *slog.Logger) *EventLogClient {
	return &EventLogClient{
		c:      newClient("event log", cfg),
		logger: logger.With("component", "event-log-client"),
	}
}

func (l *EventLogClient) Append(ctx context.Context, entry *logentry.Entry) {
	if err := entry.Validate(); err != nil {
		l.logger.ErrorContext(ctx, "refusing invalid log entry", "error", err)
		return
	}

	start := time.Now()
	if err := l.c.do(ctx, http.MethodPost, peerwire.PathAppendLog, peerwire.FromEntry(entry), nil); err != nil {
		l.logger.ErrorContext(ctx, "failed to append log entry",
			"action", entry.Action(),
			"duration", time.Since(start),
			"error", err,
		)
	}
}

type NotificationGatewayClient struct{ c client }

var _ ports.NotificationGateway = (*NotificationGatewayClient)(nil)

func NewNotificationGatewayClient(cfg Config) *NotificationGatewayClient {
	return &NotificationGatewayClient{c: newClient("notification gateway", cfg)}
}

func (g *NotificationGatewayClient) Relay(ctx context.Context, event notification.Event) error {
	return g.c.do(ctx, http.MethodPost, peerwire.PathNotifyRequester, peerwire.FromEvent(event), nil)
}
