package commands

import (
	"fmt"

	"parcel-dispatch/internal/core/domain/model/workflow"
)

// WorkflowError is returned by AssignDelivery when a hard step fails. No
// partial result accompanies it.
type WorkflowError struct {
	Reason workflow.Reason
	State  workflow.State
	Cause  error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("delivery workflow failed in state %s: %s: %v", e.State, e.Reason, e.Cause)
}

func (e *WorkflowError) Unwrap() error {
	return e.Cause
}
