package queries

import (
	"context"
	"errors"
	"time"

	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/guard"
)

var ErrListVehiclesQueryIsNotConstructed = errors.New(
	"ListVehiclesQuery must be created via NewListVehiclesQuery constructor",
)

type ListVehiclesQuery struct {
	guard guard.ConstructorGuard
}

func NewListVehiclesQuery() ListVehiclesQuery {
	return ListVehiclesQuery{guard: guard.NewConstructorGuard()}
}

func (q ListVehiclesQuery) Validate() error {
	return q.guard.Validate(ErrListVehiclesQueryIsNotConstructed)
}

type VehicleResponse struct {
	ID           string
	Available    bool
	NotifyURL    string
	RegisteredAt time.Time
}

type ListVehiclesQueryHandler struct {
	vehicles ports.VehicleRepository
}

func NewListVehiclesQueryHandler(vehicles ports.VehicleRepository) ListVehiclesQueryHandler {
	return ListVehiclesQueryHandler{vehicles: vehicles}
}

func (h ListVehiclesQueryHandler) Handle(ctx context.Context, query ListVehiclesQuery) ([]VehicleResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	vehicles, err := h.vehicles.List(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		response = append(response, VehicleResponse{
			ID:           v.ID().String(),
			Available:    v.IsAvailable(),
			NotifyURL:    v.NotifyURL(),
			RegisteredAt: v.RegisteredAt(),
		})
	}
	return response, nil
}
