package commands

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/pkg/errs"
	"parcel-dispatch/internal/pkg/guard"
)

var ErrAssignDeliveryCommandIsNotConstructed = errors.New(
	"AssignDeliveryCommand must be created via NewAssignDeliveryCommand constructor",
)

// AssignDeliveryCommand asks the orchestrator to bind a new parcel to a
// vehicle.
//
// Example:
//
//	cmd, err := NewAssignDeliveryCommand("", "http://shop.local/callbacks", map[string]any{
//	    "sender_name":      "John Doe",
//	    "delivery_address": "5 Elm St",
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type AssignDeliveryCommand struct {
	preferredVehicle *kernel.VehicleID
	callbackURL      string
	metadata         assignment.Metadata

	guard guard.ConstructorGuard
}

// NewAssignDeliveryCommand validates the request. An empty preferredVehicle
// lets the registry choose; an empty callbackURL selects the default
// requester endpoint.
func NewAssignDeliveryCommand(
	preferredVehicle string,
	callbackURL string,
	metadata map[string]any,
) (AssignDeliveryCommand, error) {
	cmd := AssignDeliveryCommand{
		metadata: assignment.Metadata(metadata).Clone(),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPreferredVehicle(preferredVehicle),
		cmd.setCallbackURL(callbackURL),
	); err != nil {
		return AssignDeliveryCommand{}, err
	}

	return cmd, nil
}

func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

// PreferredVehicle returns nil when the registry may choose.
func (c AssignDeliveryCommand) PreferredVehicle() *kernel.VehicleID {
	if c.preferredVehicle == nil {
		return nil
	}
	v := *c.preferredVehicle
	return &v
}

func (c AssignDeliveryCommand) CallbackURL() string {
	return c.callbackURL
}

func (c AssignDeliveryCommand) Metadata() assignment.Metadata {
	return c.metadata.Clone()
}

func (c *AssignDeliveryCommand) setPreferredVehicle(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	v, err := kernel.VehicleIDFromString(s)
	if err != nil {
		return err
	}

	c.preferredVehicle = &v
	return nil
}

func (c *AssignDeliveryCommand) setCallbackURL(s string) error {
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("callback_url", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errs.NewValueIsInvalidErrorWithCause("callback_url", fmt.Errorf("%q is not an absolute http(s) url", s))
	}

	c.callbackURL = s
	return nil
}
