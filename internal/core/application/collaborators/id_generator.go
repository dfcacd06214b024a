package collaborators

import (
	"context"
	"errors"
	"log/slog"

	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
)

// IDGenerator mints parcel ids and persists a placeholder for each one.
type IDGenerator struct {
	store  ports.AssignmentStore
	newID  func() kernel.ParcelID
	logger *slog.Logger
}

var _ ports.IDGenerator = (*IDGenerator)(nil)

// NewIDGenerator builds a generator writing placeholders to store. newID
// defaults to kernel.NewParcelID when nil.
func NewIDGenerator(store ports.AssignmentStore, newID func() kernel.ParcelID, logger *slog.Logger) *IDGenerator {
	if newID == nil {
		newID = kernel.NewParcelID
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IDGenerator{
		store:  store,
		newID:  newID,
		logger: logger.With("component", "id_generator"),
	}
}

// Generate returns a fresh parcel id once its placeholder is stored. Any
// store failure is reported as a DependencyUnavailableError.
func (g *IDGenerator) Generate(ctx context.Context, requestContext map[string]any) (kernel.ParcelID, error) {
	parcelID := g.newID()

	if err := g.store.CreatePlaceholder(ctx, parcelID); err != nil {
		if errors.Is(err, errs.ErrDependencyUnavailable) {
			return kernel.ParcelID{}, err
		}
		return kernel.ParcelID{}, errs.NewDependencyUnavailableErrorWithCause("assignment store", err)
	}

	g.logger.DebugContext(ctx, "parcel id generated",
		"parcel_id", parcelID.String(),
		"context_keys", len(requestContext),
	)
	return parcelID, nil
}
