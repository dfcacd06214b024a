package http

import (
	"context"
	"net/http"

	"parcel-dispatch/internal/core/application/usecases/commands"
	"parcel-dispatch/internal/core/application/usecases/queries"
	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// Metadata keys filled from the named request fields.
const (
	MetadataSenderName      = "sender_name"
	MetadataRecipientName   = "recipient_name"
	MetadataPickupAddress   = "pickup_address"
	MetadataDeliveryAddress = "delivery_address"
	MetadataDescription     = "description"
)

type AssignDeliveryHandler interface {
	Handle(ctx context.Context, cmd commands.AssignDeliveryCommand) (commands.AssignmentResult, error)
}

type AcknowledgeHandler interface {
	Handle(ctx context.Context, cmd commands.AcknowledgeNotificationCommand) error
}

type RegisterVehicleHandler interface {
	Handle(ctx context.Context, cmd commands.RegisterVehicleCommand) (*vehicle.Vehicle, error)
}

// Handlers groups the use cases behind the public API.
type Handlers struct {
	AssignDelivery  AssignDeliveryHandler
	ReportUpdate    commands.UpdateReporter
	Acknowledge     AcknowledgeHandler
	RegisterVehicle RegisterVehicleHandler

	GetAssignment queries.GetAssignmentQueryHandler
	ListLogs      queries.ListLogsQueryHandler
	ListVehicles  queries.ListVehiclesQueryHandler
}

// Server implements servers.ServerInterface. It translates transport
// types into commands and queries and maps errors to status codes.
type Server struct {
	handlers Handlers
}

var _ servers.ServerInterface = (*Server)(nil)

func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// CreateDelivery handles POST /api/v1/deliveries.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	var body servers.NewDelivery
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAssignDeliveryCommand(
		deref(body.PreferredVehicle), deref(body.CallbackUrl), deliveryMetadata(body))
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.handlers.AssignDelivery.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.DeliveryAssignment{
		ParcelId:  result.ParcelID.String(),
		VehicleId: result.VehicleID.String(),
	})
}

// GetDelivery handles GET /api/v1/deliveries/{parcelId}.
func (s *Server) GetDelivery(ctx echo.Context, parcelID servers.ParcelId) error {
	query, err := queries.NewGetAssignmentQuery(parcelID)
	if err != nil {
		return respondError(ctx, err)
	}

	a, err := s.handlers.GetAssignment.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := servers.Assignment{
		ParcelId:  a.ParcelID,
		Status:    servers.AssignmentStatus(a.Status),
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.VehicleID != "" {
		response.VehicleId = &a.VehicleID
	}
	return ctx.JSON(http.StatusOK, response)
}

// ReportDeliveryUpdate handles POST /api/v1/deliveries/{parcelId}/updates.
// Unknown parcels are still acknowledged.
func (s *Server) ReportDeliveryUpdate(ctx echo.Context, parcelID servers.ParcelId) error {
	var body servers.DeliveryUpdate
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewReportUpdateCommand(parcelID, body.Status, derefMap(body.Detail))
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.handlers.ReportUpdate.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusAccepted, servers.UpdateAck{Acknowledged: result.Acknowledged})
}

// CreateAcknowledgement handles POST /api/v1/acknowledgements.
func (s *Server) CreateAcknowledgement(ctx echo.Context) error {
	var body servers.Acknowledgement
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAcknowledgeNotificationCommand(body.Source, deref(body.ParcelId), derefMap(body.Detail))
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.handlers.Acknowledge.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, servers.AcknowledgementReceipt{Status: "received"})
}

// ListLogs handles GET /api/v1/logs.
func (s *Server) ListLogs(ctx echo.Context, params servers.ListLogsParams) error {
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewListLogsQuery(deref(params.ParcelId), limit)
	if err != nil {
		return respondError(ctx, err)
	}

	entries, err := s.handlers.ListLogs.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]servers.LogEntry, len(entries))
	for i, e := range entries {
		response[i] = servers.LogEntry{
			Id:        e.ID,
			Source:    e.Source,
			Action:    e.Action,
			Level:     servers.LogEntryLevel(e.Level),
			Detail:    e.Detail,
			Timestamp: e.Timestamp,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// ListVehicles handles GET /api/v1/vehicles.
func (s *Server) ListVehicles(ctx echo.Context) error {
	vehicles, err := s.handlers.ListVehicles.Handle(ctx.Request().Context(), queries.NewListVehiclesQuery())
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]servers.Vehicle, len(vehicles))
	for i, v := range vehicles {
		response[i] = servers.Vehicle{
			VehicleId:    v.ID,
			Available:    v.Available,
			RegisteredAt: v.RegisteredAt,
		}
		if v.NotifyURL != "" {
			response[i].NotifyUrl = &v.NotifyURL
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// RegisterVehicle handles POST /api/v1/vehicles. Vehicles are available
// unless the body says otherwise.
func (s *Server) RegisterVehicle(ctx echo.Context) error {
	var body servers.NewVehicle
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	available := true
	if body.Available != nil {
		available = *body.Available
	}

	cmd, err := commands.NewRegisterVehicleCommand(body.VehicleId, deref(body.NotifyUrl), available)
	if err != nil {
		return respondError(ctx, err)
	}

	v, err := s.handlers.RegisterVehicle.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	response := servers.Vehicle{
		VehicleId:    v.ID().String(),
		Available:    v.IsAvailable(),
		RegisteredAt: v.RegisteredAt(),
	}
	if url := v.NotifyURL(); url != "" {
		response.NotifyUrl = &url
	}
	return ctx.JSON(http.StatusCreated, response)
}

func deliveryMetadata(body servers.NewDelivery) map[string]any {
	metadata := derefMap(body.Metadata)
	for key, value := range map[string]*string{
		MetadataSenderName:      body.SenderName,
		MetadataRecipientName:   body.RecipientName,
		MetadataPickupAddress:   body.PickupAddress,
		MetadataDeliveryAddress: body.DeliveryAddress,
		MetadataDescription:     body.Description,
	} {
		if value != nil {
			metadata[key] = *value
		}
	}
	return metadata
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefMap(m *map[string]any) map[string]any {
	out := map[string]any{}
	if m == nil {
		return out
	}
	for k, v := range *m {
		out[k] = v
	}
	return out
}
