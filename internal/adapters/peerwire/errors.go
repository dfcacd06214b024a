package peerwire

import (
	"errors"
	"net/http"

	"parcel-dispatch/internal/pkg/errs"
)

// Classify maps a domain error to an HTTP status and error code. The same
// table drives the public API and the internal endpoints.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, errs.ErrNoVehicleAvailable):
		return http.StatusConflict, CodeNoVehicle
	case errors.Is(err, errs.ErrVehicleAlreadyAttached):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, CodeInvalid
	case errors.Is(err, errs.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, CodeUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// Restore turns an error answer from a peer back into a domain error, so
// callers can keep classifying with errors.Is.
func Restore(dependency string, status int, msg ErrorMessage) error {
	cause := errors.New(msg.Message)
	switch msg.Code {
	case CodeNotFound:
		return errs.NewObjectNotFoundErrorWithCause(dependency, msg.Reason, cause)
	case CodeNoVehicle:
		return errors.Join(errs.ErrNoVehicleAvailable, cause)
	case CodeConflict:
		return errors.Join(errs.ErrVehicleAlreadyAttached, cause)
	case CodeInvalid:
		return errs.NewValueIsInvalidErrorWithCause(dependency, cause)
	}
	if status == http.StatusNotFound {
		return errs.NewObjectNotFoundErrorWithCause(dependency, msg.Reason, cause)
	}
	return errs.NewDependencyUnavailableErrorWithCause(dependency, cause)
}
