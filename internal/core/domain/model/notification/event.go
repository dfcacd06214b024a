// Package notification holds the events relayed to requesters and vehicles.
package notification

import (
	"maps"
	"time"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
)

type EventType string

const (
	// DeliveryAssigned is sent once a parcel has been bound to a vehicle.
	DeliveryAssigned EventType = "delivery_assigned"
	// DeliveryUpdate carries a status reported by the vehicle side.
	DeliveryUpdate EventType = "delivery_update"
)

// Event is the payload forwarded by the notification gateway. CallbackURL
// selects the requester endpoint; empty means the configured default.
type Event struct {
	Type        EventType
	ParcelID    kernel.ParcelID
	VehicleID   *kernel.VehicleID
	Status      assignment.Status
	Detail      map[string]any
	CallbackURL string
	OccurredAt  time.Time
}

func NewAssignedEvent(
	parcelID kernel.ParcelID,
	vehicleID kernel.VehicleID,
	metadata assignment.Metadata,
	callbackURL string,
	now time.Time,
) Event {
	return Event{
		Type:        DeliveryAssigned,
		ParcelID:    parcelID,
		VehicleID:   &vehicleID,
		Status:      assignment.Assigned,
		Detail:      metadata.Clone(),
		CallbackURL: callbackURL,
		OccurredAt:  now,
	}
}

func NewUpdateEvent(
	parcelID kernel.ParcelID,
	status assignment.Status,
	detail map[string]any,
	now time.Time,
) Event {
	d := make(map[string]any, len(detail))
	maps.Copy(d, detail)
	return Event{
		Type:       DeliveryUpdate,
		ParcelID:   parcelID,
		Status:     status,
		Detail:     d,
		OccurredAt: now,
	}
}

// Payload flattens the event into the map sent over the wire.
func (e Event) Payload() map[string]any {
	payload := map[string]any{
		"event":       string(e.Type),
		"parcel_id":   e.ParcelID.String(),
		"status":      e.Status.String(),
		"occurred_at": e.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	if e.VehicleID != nil {
		payload["vehicle_id"] = e.VehicleID.String()
	}
	if len(e.Detail) > 0 {
		d := make(map[string]any, len(e.Detail))
		maps.Copy(d, e.Detail)
		payload["detail"] = d
	}
	return payload
}
