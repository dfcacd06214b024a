// Package peerwire defines the messages exchanged between the orchestrator
// and its collaborators when they run as separate processes. Every message
// carries both json and yaml tags so either codec can be used on the wire.
package peerwire

import (
	"time"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/domain/model/notification"
)

const (
	StatusOK           = "ok"
	StatusAcknowledged = "ack"
	StatusNotFound     = "not_found"
)

// Error codes carried in ErrorMessage.Code.
const (
	CodeInvalid     = "invalid"
	CodeNotFound    = "not_found"
	CodeNoVehicle   = "no_vehicle"
	CodeConflict    = "conflict"
	CodeUnavailable = "unavailable"
	CodeInternal    = "internal"
)

// Paths of the internal endpoints, relative to /internal/v1.
const (
	PathGenerateParcelID = "/idgen/parcel-ids"
	PathAcquireVehicle   = "/registry/acquire"
	PathNotifyVehicle    = "/registry/notify"
	PathPlaceholder      = "/store/placeholders"
	PathAttachVehicle    = "/store/attach"
	PathFinalize         = "/store/finalize"
	PathUpdateStatus     = "/store/status"
	PathAssignments      = "/store/assignments/"
	PathAppendLog        = "/logs"
	PathNotifyRequester  = "/gateway/notify"
)

type GenerateParcelIDRequest struct {
	Context map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
}

type GenerateParcelIDResponse struct {
	ParcelID string `json:"parcel_id" yaml:"parcel_id"`
}

type AcquireVehicleRequest struct {
	ParcelID         string  `json:"parcel_id" yaml:"parcel_id"`
	PreferredVehicle *string `json:"preferred_vehicle,omitempty" yaml:"preferred_vehicle,omitempty"`
}

type AcquireVehicleResponse struct {
	VehicleID string `json:"vehicle_id" yaml:"vehicle_id"`
}

// AssignmentRequest covers placeholder, attach, finalize and notify-vehicle
// calls; unused fields stay empty.
type AssignmentRequest struct {
	ParcelID  string         `json:"parcel_id" yaml:"parcel_id"`
	VehicleID string         `json:"vehicle_id,omitempty" yaml:"vehicle_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type UpdateStatusRequest struct {
	ParcelID string `json:"parcel_id" yaml:"parcel_id"`
	Status   string `json:"status" yaml:"status"`
}

// StatusResponse answers calls that only report an outcome.
type StatusResponse struct {
	Status string `json:"status" yaml:"status"`
}

type AssignmentMessage struct {
	ParcelID  string         `json:"parcel_id" yaml:"parcel_id"`
	VehicleID *string        `json:"vehicle_id" yaml:"vehicle_id"`
	Status    string         `json:"status" yaml:"status"`
	Metadata  map[string]any `json:"metadata" yaml:"metadata"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" yaml:"updated_at"`
}

type LogMessage struct {
	Source    string         `json:"source" yaml:"source"`
	Action    string         `json:"action" yaml:"action"`
	Level     string         `json:"level" yaml:"level"`
	Detail    map[string]any `json:"detail,omitempty" yaml:"detail,omitempty"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}

type NotificationMessage struct {
	Event       string         `json:"event" yaml:"event"`
	ParcelID    string         `json:"parcel_id" yaml:"parcel_id"`
	VehicleID   *string        `json:"vehicle_id,omitempty" yaml:"vehicle_id,omitempty"`
	Status      string         `json:"status" yaml:"status"`
	Detail      map[string]any `json:"detail,omitempty" yaml:"detail,omitempty"`
	CallbackURL string         `json:"callback_url,omitempty" yaml:"callback_url,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at" yaml:"occurred_at"`
}

type ErrorMessage struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Reason  string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func FromAssignment(a *assignment.Assignment) AssignmentMessage {
	msg := AssignmentMessage{
		ParcelID:  a.ParcelID().String(),
		Status:    a.Status().String(),
		Metadata:  a.Metadata(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
	if v := a.VehicleID(); v != nil {
		s := v.String()
		msg.VehicleID = &s
	}
	return msg
}

func (m AssignmentMessage) ToDomain() (*assignment.Assignment, error) {
	parcelID, err := kernel.ParcelIDFromString(m.ParcelID)
	if err != nil {
		return nil, err
	}

	var vehicleID *kernel.VehicleID
	if m.VehicleID != nil && *m.VehicleID != "" {
		v, err := kernel.VehicleIDFromString(*m.VehicleID)
		if err != nil {
			return nil, err
		}
		vehicleID = &v
	}

	status, err := assignment.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return assignment.RestoreAssignment(parcelID, vehicleID, status, m.Metadata, m.CreatedAt, m.UpdatedAt)
}

func FromEntry(e *logentry.Entry) LogMessage {
	return LogMessage{
		Source:    e.Source(),
		Action:    e.Action(),
		Level:     e.Level().String(),
		Detail:    e.Detail(),
		Timestamp: e.Timestamp(),
	}
}

func (m LogMessage) ToDomain() (*logentry.Entry, error) {
	level, err := logentry.ParseLevel(m.Level)
	if err != nil {
		return nil, err
	}
	return logentry.NewEntry(m.Source, m.Action, level, m.Detail, m.Timestamp)
}

func FromEvent(e notification.Event) NotificationMessage {
	msg := NotificationMessage{
		Event:       string(e.Type),
		ParcelID:    e.ParcelID.String(),
		Status:      e.Status.String(),
		Detail:      e.Detail,
		CallbackURL: e.CallbackURL,
		OccurredAt:  e.OccurredAt,
	}
	if e.VehicleID != nil {
		s := e.VehicleID.String()
		msg.VehicleID = &s
	}
	return msg
}

func (m NotificationMessage) ToDomain() (notification.Event, error) {
	parcelID, err := kernel.ParcelIDFromString(m.ParcelID)
	if err != nil {
		return notification.Event{}, err
	}

	status, err := assignment.ParseStatus(m.Status)
	if err != nil {
		return notification.Event{}, err
	}

	event := notification.Event{
		Type:        notification.EventType(m.Event),
		ParcelID:    parcelID,
		Status:      status,
		Detail:      m.Detail,
		CallbackURL: m.CallbackURL,
		OccurredAt:  m.OccurredAt,
	}
	if m.VehicleID != nil && *m.VehicleID != "" {
		v, err := kernel.VehicleIDFromString(*m.VehicleID)
		if err != nil {
			return notification.Event{}, err
		}
		event.VehicleID = &v
	}
	return event, nil
}
