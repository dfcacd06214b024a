package http

import (
	"errors"
	"io"
	"net/http"

	"parcel-dispatch/internal/adapters/peerwire"
	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/codec"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// PeerPrefix is where the collaborator endpoints are mounted.
const PeerPrefix = "/internal/v1"

const maxPeerBody = 1 << 20

// Collaborators are the local components exposed to peer processes.
type Collaborators struct {
	IDGenerator         ports.IDGenerator
	VehicleRegistry     ports.VehicleRegistry
	AssignmentStore     ports.AssignmentStore
	EventLog            ports.EventLog
	NotificationGateway ports.NotificationGateway
}

// PeerServer serves peerwire messages in JSON or YAML, chosen per request
// by Content-Type and Accept.
type PeerServer struct {
	collaborators Collaborators
}

func NewPeerServer(collaborators Collaborators) *PeerServer {
	return &PeerServer{collaborators: collaborators}
}

// Register mounts the endpoints of every configured collaborator on g.
func (s *PeerServer) Register(g *echo.Group) {
	c := s.collaborators
	if c.IDGenerator != nil {
		g.POST(peerwire.PathGenerateParcelID, s.generateParcelID)
	}
	if c.VehicleRegistry != nil {
		g.POST(peerwire.PathAcquireVehicle, s.acquireVehicle)
		g.POST(peerwire.PathNotifyVehicle, s.notifyVehicle)
	}
	if c.AssignmentStore != nil {
		g.POST(peerwire.PathPlaceholder, s.createPlaceholder)
		g.POST(peerwire.PathAttachVehicle, s.attachVehicle)
		g.POST(peerwire.PathFinalize, s.finalize)
		g.POST(peerwire.PathUpdateStatus, s.updateStatus)
		g.GET(peerwire.PathAssignments+":parcelId", s.getAssignment)
	}
	if c.EventLog != nil {
		g.POST(peerwire.PathAppendLog, s.appendLog)
	}
	if c.NotificationGateway != nil {
		g.POST(peerwire.PathNotifyRequester, s.notifyRequester)
	}
}

func (s *PeerServer) generateParcelID(ctx echo.Context) error {
	var req peerwire.GenerateParcelIDRequest
	if err := decodePeer(ctx, &req); err != nil {
		return peerError(ctx, err)
	}

	id, err := s.collaborators.IDGenerator.Generate(ctx.Request().Context(), req.Context)
	if err != nil {
		return peerError(ctx, err)
	}
	return encodePeer(ctx, http.StatusOK, peerwire.GenerateParcelIDResponse{ParcelID: id.String()})
}

func (s *PeerServer) acquireVehicle(ctx echo.Context) error {
	var req peerwire.AcquireVehicleRequest
	if err := decodePeer(ctx, &req); err != nil {
		return peerError(ctx, err)
	}

	parcelID, err := kernel.ParcelIDFromString(req.ParcelID)
	if err != nil {
		return peerError(ctx, err)
	}

	var preferred *kernel.VehicleID
	if req.PreferredVehicle != nil && *req.PreferredVehicle != "" {
		v, err := kernel.VehicleIDFromString(*req.PreferredVehicle)
		if err != nil {
			return peerError(ctx, err)
		}
		preferred = &v
	}

	vehicleID, err := s.collaborators.VehicleRegistry.Acquire(ctx.Request().Context(), parcelID, preferred)
	if err != nil {
		return peerError(ctx, err)
	}
	return encodePeer(ctx, http.StatusOK, peerwire.AcquireVehicleResponse{VehicleID: vehicleID.String()})
}

func (s *PeerServer) notifyVehicle(ctx echo.Context) error {
	parcelID, vehicleID, metadata, err := decodeAssignmentRequest(ctx)
	if err != nil {
		return peerError(ctx, err)
	}

	if err := s.collaborators.VehicleRegistry.Notify(ctx.Request().Context(), parcelID, vehicleID, metadata); err != nil {
		return peerError(ctx, err)
	}
	return encodePeer(ctx, http.StatusOK, peerwire.StatusResponse{Status: peerwire.StatusAcknowledged})
}

func (s *PeerServer) createPlaceholder(ctx echo.Context) error {
	var req peerwire.AssignmentRequest
	if err := decodePeer(ctx, &req); err != nil {
		return peerError(ctx, err)
	}

	parcelID, err := kernel.ParcelIDFromString(req.ParcelID)
	if err != nil {
		return peerError(ctx, err)
	}

	if err := s.collaborators.AssignmentStore.CreatePlaceholder(ctx.Request().Context(), parcelID); err != nil {
		return peerError(ctx, err)
	}
	return encodePeer(ctx, http.StatusOK, peerwire.StatusResponse{Status: peerwire.StatusOK})
}

func (s *PeerServer) attachVehicle(ctx echo.Context) error {
	parcelID, vehicleID, _, err := decodeAssignmentRequest(ctx)
	if err != nil {
		return peerError(ctx, err)
	}

	if err := s.collaborators.AssignmentStore.AttachVehicle(ctx.Request().Context(), parcelID, vehicleID); err != nil {
		return peerError(ctx, err)
	}
	return encodePeer(ctx, http.StatusOK, peerwire.StatusResponse{Status: peerwire.StatusOK})
}

func (s *PeerServer) finalize(ctx echo.Context) error {
	parcelID, vehicleID, metadata, err := decodeAssignmentRequest(ctx)
	if err != nil {
		return peerError(ctx, err)
	}

	if err := s.collaborators.AssignmentStore.Finalize(ctx.Request().Context(), parcelID, vehicleID, metadata); err != nil {
		return peerError(ctx, err)
	}
	return encodePeer(ctx, http.StatusOK, peerwire.StatusResponse{Status: peerwire.StatusOK})
}

// updateStatus answers 200 with status "not_found" for unknown parcels.
func (s *PeerServer) updateStatus(ctx echo.Context) error {
	var req peerwire.UpdateStatusRequest
	if err := decodePeer(ctx, &req); err != nil {
		return peerError(ctx, err)
	}

	parcelID, err := kernel.ParcelIDFromString(req.ParcelID)
	if err != nil {
		return peerError(ctx, err)
	}
	status, err := assignment.ParseStatus(req.Status)
	if err != nil {
		return peerError(ctx, err)
	}

	err = s.collaborators.AssignmentStore.UpdateStatus(ctx.Request().Context(), parcelID, status)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return encodePeer(ctx, http.StatusOK, peerwire.StatusResponse{Status: peerwire.StatusNotFound})
	}
	if err != nil {
		return peerError(ctx, err)
	}
	return encodePeer(ctx, http.StatusOK, peerwire.StatusResponse{Status: peerwire.StatusOK})
}

func (s *PeerServer) getAssignment(ctx echo.Context) error {
	parcelID, err := kernel.ParcelIDFromString(ctx.Param("parcelId"))
	if err != nil {
		return peerError(ctx, err)
	}

	a, found, err := s.collaborators.AssignmentStore.Get(ctx.Request().Context(), parcelID)
	if err != nil {
		return peerError(ctx, err)
	}
	if !found {
		return peerError(ctx, errs.NewObjectNotFoundError("parcel_id", parcelID.String()))
	}
	return encodePeer(ctx, http.StatusOK, peerwire.FromAssignment(a))
}

func (s *PeerServer) appendLog(ctx echo.Context) error {
	var msg peerwire.LogMessage
	if err := decodePeer(ctx, &msg); err != nil {
		return peerError(ctx, err)
	}

	entry, err := msg.ToDomain()
	if err != nil {
		return peerError(ctx, err)
	}

	s.collaborators.EventLog.Append(ctx.Request().Context(), entry)
	return encodePeer(ctx, http.StatusOK, peerwire.StatusResponse{Status: peerwire.StatusOK})
}

func (s *PeerServer) notifyRequester(ctx echo.Context) error {
	var msg peerwire.NotificationMessage
	if err := decodePeer(ctx, &msg); err != nil {
		return peerError(ctx, err)
	}

	event, err := msg.ToDomain()
	if err != nil {
		return peerError(ctx, err)
	}

	if err := s.collaborators.NotificationGateway.Relay(ctx.Request().Context(), event); err != nil {
		return peerError(ctx, err)
	}
	return encodePeer(ctx, http.StatusOK, peerwire.StatusResponse{Status: peerwire.StatusAcknowledged})
}

func decodeAssignmentRequest(ctx echo.Context) (kernel.ParcelID, kernel.VehicleID, assignment.Metadata, error) {
	var req peerwire.AssignmentRequest
	if err := decodePeer(ctx, &req); err != nil {
		return kernel.ParcelID{}, kernel.VehicleID{}, nil, err
	}

	parcelID, err := kernel.ParcelIDFromString(req.ParcelID)
	if err != nil {
		return kernel.ParcelID{}, kernel.VehicleID{}, nil, err
	}
	vehicleID, err := kernel.VehicleIDFromString(req.VehicleID)
	if err != nil {
		return kernel.ParcelID{}, kernel.VehicleID{}, nil, err
	}
	return parcelID, vehicleID, assignment.Metadata(req.Metadata), nil
}

// decodePeer reads the body with the codec named by Content-Type, JSON
// when the header is absent.
func decodePeer(ctx echo.Context, out any) error {
	c, ok := codec.ForContentType(ctx.Request().Header.Get(echo.HeaderContentType))
	if !ok {
		c = codec.JSON
	}

	data, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxPeerBody))
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := c.Unmarshal(data, out); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return nil
}

// encodePeer answers in the codec named by Accept, falling back to the
// request's Content-Type and then JSON.
func encodePeer(ctx echo.Context, status int, body any) error {
	c, ok := codec.ForContentType(ctx.Request().Header.Get(echo.HeaderAccept))
	if !ok {
		if c, ok = codec.ForContentType(ctx.Request().Header.Get(echo.HeaderContentType)); !ok {
			c = codec.JSON
		}
	}

	data, err := c.Marshal(body)
	if err != nil {
		return err
	}
	return ctx.Blob(status, c.ContentType(), data)
}

func peerError(ctx echo.Context, err error) error {
	status, code := peerwire.Classify(err)
	return encodePeer(ctx, status, peerwire.ErrorMessage{Code: code, Message: err.Error()})
}
