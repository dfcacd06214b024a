// Package queries contains read operations for retrieving system state.
// Queries return read models shaped for the transports rather than
// aggregates.
package queries

import (
	"context"
	"errors"
	"time"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
	"parcel-dispatch/internal/pkg/guard"
)

var ErrGetAssignmentQueryIsNotConstructed = errors.New(
	"GetAssignmentQuery must be created via NewGetAssignmentQuery constructor",
)

// GetAssignmentQuery looks up the assignment of one parcel.
type GetAssignmentQuery struct {
	parcelID kernel.ParcelID
	guard    guard.ConstructorGuard
}

func NewGetAssignmentQuery(parcelID string) (GetAssignmentQuery, error) {
	id, err := kernel.ParcelIDFromString(parcelID)
	if err != nil {
		return GetAssignmentQuery{}, err
	}
	return GetAssignmentQuery{parcelID: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAssignmentQuery) Validate() error {
	return q.guard.Validate(ErrGetAssignmentQueryIsNotConstructed)
}

// GetAssignmentQueryResponse is the read model of an assignment. VehicleID
// is empty while the parcel is pending.
type GetAssignmentQueryResponse struct {
	ParcelID  string
	VehicleID string
	Status    string
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetAssignmentQueryHandler reads through the assignment store, so it
// works the same against a local or a remote store.
type GetAssignmentQueryHandler struct {
	store ports.AssignmentStore
}

func NewGetAssignmentQueryHandler(store ports.AssignmentStore) GetAssignmentQueryHandler {
	return GetAssignmentQueryHandler{store: store}
}

// Handle returns an ObjectNotFoundError for unknown parcels.
func (h GetAssignmentQueryHandler) Handle(ctx context.Context, query GetAssignmentQuery) (GetAssignmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAssignmentQueryResponse{}, err
	}

	a, found, err := h.store.Get(ctx, query.parcelID)
	if err != nil {
		return GetAssignmentQueryResponse{}, err
	}
	if !found {
		return GetAssignmentQueryResponse{}, errs.NewObjectNotFoundError("parcel_id", query.parcelID.String())
	}

	response := GetAssignmentQueryResponse{
		ParcelID:  a.ParcelID().String(),
		Status:    a.Status().String(),
		Metadata:  a.Metadata(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
	if v := a.VehicleID(); v != nil {
		response.VehicleID = v.String()
	}
	return response, nil
}
