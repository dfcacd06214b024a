package workflow

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition   = errors.New("invalid workflow transition")
	ErrWorkflowIsCompleted = errors.New("workflow already reached a terminal state")
)

// Instance is the state machine of a single run. It is owned by one request
// and is not safe for concurrent use.
type Instance struct {
	state   State
	reason  Reason
	history []State
}

func NewInstance() *Instance {
	return &Instance{state: Start, history: []State{Start}}
}

func (i *Instance) State() State {
	return i.state
}

// Reason is set once the run failed.
func (i *Instance) Reason() Reason {
	return i.reason
}

// History returns the visited states in order.
func (i *Instance) History() []State {
	h := make([]State, len(i.history))
	copy(h, i.history)
	return h
}

// Complete records that step executed. Steps must be completed in order.
func (i *Instance) Complete(step Step) error {
	target, ok := stepTargets[step]
	if !ok {
		return fmt.Errorf("%w: unknown step %q", ErrInvalidTransition, step)
	}
	if i.state.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrWorkflowIsCompleted, i.state)
	}
	if target != i.state+1 {
		return fmt.Errorf("%w: %s cannot follow %s", ErrInvalidTransition, step, i.state)
	}
	i.moveTo(target)
	return nil
}

// Finish moves a run that notified the requester to Done.
func (i *Instance) Finish() error {
	if i.state != RequesterNotified {
		return fmt.Errorf("%w: cannot finish from %s", ErrInvalidTransition, i.state)
	}
	i.moveTo(Done)
	return nil
}

// Fail ends the run with reason. It returns the state the run failed in.
func (i *Instance) Fail(reason Reason) (State, error) {
	if i.state.IsTerminal() {
		return i.state, fmt.Errorf("%w: %s", ErrWorkflowIsCompleted, i.state)
	}
	failedIn := i.state
	i.reason = reason
	i.moveTo(Failed)
	return failedIn, nil
}

func (i *Instance) moveTo(s State) {
	i.state = s
	i.history = append(i.history, s)
}
