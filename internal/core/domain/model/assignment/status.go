package assignment

import (
	"fmt"
	"strings"

	"parcel-dispatch/internal/pkg/errs"
)

// Status is the delivery status of an assignment.
//
// The orchestrator writes Pending (placeholder), then Assigned (finalize);
// the vehicle side reports InTransit, Delivered or Failed. Status updates
// overwrite the previous value, so there is no transition table; the only
// rule is that statuses which imply a vehicle require one to be attached.
type Status int

const (
	// Unknown catches uninitialised values and is never persisted.
	Unknown Status = iota
	Pending
	Assigned
	InTransit
	Delivered
	Failed
)

var statusNames = map[Status]string{
	Pending:   "pending",
	Assigned:  "assigned",
	InTransit: "in_transit",
	Delivered: "delivered",
	Failed:    "failed",
}

// ParseStatus converts the wire name of a status ("in_transit", ...) into a
// Status. Matching is case-insensitive and accepts "-" for "_".
func ParseStatus(s string) (Status, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if normalized == "" {
		return Unknown, errs.NewValueIsRequiredError("status")
	}
	for status, name := range statusNames {
		if name == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, or "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// AllStatuses lists the valid statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Assigned, InTransit, Delivered, Failed}
}
