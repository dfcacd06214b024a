// Package mocks holds testify mocks of the ports, shared by the use case,
// collaborator and job tests.
package mocks

import (
	"context"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/domain/model/notification"
	"parcel-dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

var (
	_ ports.IDGenerator         = (*IDGenerator)(nil)
	_ ports.VehicleRegistry     = (*VehicleRegistry)(nil)
	_ ports.AssignmentStore     = (*AssignmentStore)(nil)
	_ ports.EventLog            = (*EventLog)(nil)
	_ ports.NotificationGateway = (*NotificationGateway)(nil)
	_ ports.WebhookSender       = (*WebhookSender)(nil)
	_ ports.LogRepository       = (*LogRepository)(nil)
)

type IDGenerator struct{ mock.Mock }

func (m *IDGenerator) Generate(ctx context.Context, requestContext map[string]any) (kernel.ParcelID, error) {
	args := m.Called(ctx, requestContext)
	return args.Get(0).(kernel.ParcelID), args.Error(1)
}

type VehicleRegistry struct{ mock.Mock }

func (m *VehicleRegistry) Acquire(
	ctx context.Context,
	parcelID kernel.ParcelID,
	preferred *kernel.VehicleID,
) (kernel.VehicleID, error) {
	args := m.Called(ctx, parcelID, preferred)
	return args.Get(0).(kernel.VehicleID), args.Error(1)
}

func (m *VehicleRegistry) Notify(
	ctx context.Context,
	parcelID kernel.ParcelID,
	vehicleID kernel.VehicleID,
	metadata assignment.Metadata,
) error {
	args := m.Called(ctx, parcelID, vehicleID, metadata)
	return args.Error(0)
}

type AssignmentStore struct{ mock.Mock }

func (m *AssignmentStore) CreatePlaceholder(ctx context.Context, parcelID kernel.ParcelID) error {
	args := m.Called(ctx, parcelID)
	return args.Error(0)
}

func (m *AssignmentStore) AttachVehicle(ctx context.Context, parcelID kernel.ParcelID, vehicleID kernel.VehicleID) error {
	args := m.Called(ctx, parcelID, vehicleID)
	return args.Error(0)
}

func (m *AssignmentStore) Finalize(
	ctx context.Context,
	parcelID kernel.ParcelID,
	vehicleID kernel.VehicleID,
	metadata assignment.Metadata,
) error {
	args := m.Called(ctx, parcelID, vehicleID, metadata)
	return args.Error(0)
}

func (m *AssignmentStore) Get(ctx context.Context, parcelID kernel.ParcelID) (*assignment.Assignment, bool, error) {
	args := m.Called(ctx, parcelID)
	a, _ := args.Get(0).(*assignment.Assignment)
	return a, args.Bool(1), args.Error(2)
}

func (m *AssignmentStore) UpdateStatus(ctx context.Context, parcelID kernel.ParcelID, status assignment.Status) error {
	args := m.Called(ctx, parcelID, status)
	return args.Error(0)
}

// EventLog records appended entries in addition to the mock expectations,
// so tests can assert on the log sequence without stubbing every call.
type EventLog struct {
	mock.Mock
	Entries []*logentry.Entry
}

func (m *EventLog) Append(ctx context.Context, entry *logentry.Entry) {
	m.Entries = append(m.Entries, entry)
	if len(m.ExpectedCalls) > 0 {
		m.Called(ctx, entry)
	}
}

// Actions returns the action of every appended entry in order.
func (m *EventLog) Actions() []string {
	actions := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		actions = append(actions, e.Action())
	}
	return actions
}

type NotificationGateway struct{ mock.Mock }

func (m *NotificationGateway) Relay(ctx context.Context, event notification.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type WebhookSender struct{ mock.Mock }

func (m *WebhookSender) Send(ctx context.Context, url string, payload map[string]any) error {
	args := m.Called(ctx, url, payload)
	return args.Error(0)
}

type LogRepository struct{ mock.Mock }

func (m *LogRepository) Append(ctx context.Context, entry *logentry.Entry) (*logentry.Entry, error) {
	args := m.Called(ctx, entry)
	stored, _ := args.Get(0).(*logentry.Entry)
	return stored, args.Error(1)
}

func (m *LogRepository) List(ctx context.Context, filter ports.LogFilter) ([]*logentry.Entry, error) {
	args := m.Called(ctx, filter)
	entries, _ := args.Get(0).([]*logentry.Entry)
	return entries, args.Error(1)
}
