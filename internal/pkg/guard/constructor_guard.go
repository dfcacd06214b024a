// Package guard holds the constructor guard shared by commands, queries and
// value objects.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes
// a nil error and the guarded value was not built by its constructor.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built by its constructor. Embed it in a
// struct and call Validate from the struct's own Validate method; a zero
// value struct then fails validation.
//
// Example:
//
//	type ReportUpdateCommand struct {
//	    parcelID kernel.ParcelID
//	    guard    guard.ConstructorGuard
//	}
//
//	func (c ReportUpdateCommand) Validate() error {
//	    return c.guard.Validate(ErrReportUpdateCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that passes validation.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard, otherwise validationError
// (or ErrDefaultConstructorGuard when validationError is nil).
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
