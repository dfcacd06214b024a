// Package workflow models one run of the delivery assignment workflow.
//
// The package includes:
//   - State: the position of a run in the fixed step sequence
//   - Step: a named step and the state it leads to
//   - Reason: why a run ended in Failed
//   - Instance: the state machine of a single run
//
// A run walks
//
//	Start -> ParcelIDAcquired -> VehicleAcquired -> AssignmentPersisted
//	      -> VehicleNotified -> RequesterNotified -> Done
//
// and may end in Failed from any non-terminal state. Soft steps advance the
// state whether or not the underlying call succeeded.
package workflow
