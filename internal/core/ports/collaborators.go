package ports

import (
	"context"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/domain/model/notification"
)

// IDGenerator mints parcel ids. A placeholder assignment exists for the id
// once Generate returns.
type IDGenerator interface {
	Generate(ctx context.Context, requestContext map[string]any) (kernel.ParcelID, error)
}

// VehicleRegistry picks vehicles for parcels and relays notifications to them.
type VehicleRegistry interface {
	// Acquire returns preferred when it is registered, else the first
	// available vehicle, and attaches it to parcelID in the assignment store.
	Acquire(ctx context.Context, parcelID kernel.ParcelID, preferred *kernel.VehicleID) (kernel.VehicleID, error)

	// Notify tells the vehicle it has been assigned parcelID.
	Notify(ctx context.Context, parcelID kernel.ParcelID, vehicleID kernel.VehicleID, metadata assignment.Metadata) error
}

// AssignmentStore owns Assignment records. Get reports absence with
// found=false rather than an error.
type AssignmentStore interface {
	CreatePlaceholder(ctx context.Context, parcelID kernel.ParcelID) error
	AttachVehicle(ctx context.Context, parcelID kernel.ParcelID, vehicleID kernel.VehicleID) error
	Finalize(ctx context.Context, parcelID kernel.ParcelID, vehicleID kernel.VehicleID, metadata assignment.Metadata) error
	Get(ctx context.Context, parcelID kernel.ParcelID) (a *assignment.Assignment, found bool, err error)
	UpdateStatus(ctx context.Context, parcelID kernel.ParcelID, status assignment.Status) error
}

// EventLog records workflow activity. Append never fails the caller.
type EventLog interface {
	Append(ctx context.Context, entry *logentry.Entry)
}

// NotificationGateway forwards events to the requester side.
type NotificationGateway interface {
	Relay(ctx context.Context, event notification.Event) error
}

// WebhookSender delivers a payload to an HTTP endpoint.
type WebhookSender interface {
	Send(ctx context.Context, url string, payload map[string]any) error
}
