// Package errs provides the typed errors shared across the dispatch service.
//
// Every error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrObjectNotFound)
//   - a struct type carrying the details
//   - constructors with and without a cause
//   - Unwrap returning the sentinel, so callers classify with errors.Is
//
// The sentinels double as the service error taxonomy:
//   - ErrObjectNotFound: a referenced parcel or vehicle does not exist
//   - ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange: validation
//   - ErrDependencyUnavailable: a collaborator failed or timed out
//   - ErrNoVehicleAvailable: the registry has nothing to hand out
package errs
