package workflow

type State int

const (
	Start State = iota
	ParcelIDAcquired
	VehicleAcquired
	AssignmentPersisted
	VehicleNotified
	RequesterNotified
	Done
	Failed
)

var stateNames = map[State]string{
	Start:               "Start",
	ParcelIDAcquired:    "ParcelIdAcquired",
	VehicleAcquired:     "VehicleAcquired",
	AssignmentPersisted: "AssignmentPersisted",
	VehicleNotified:     "VehicleNotified",
	RequesterNotified:   "RequesterNotified",
	Done:                "Done",
	Failed:              "Failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == Done || s == Failed
}

// Reason is the machine-readable cause of a failed run.
type Reason string

const (
	ReasonIDGenUnavailable   Reason = "IdGenUnavailable"
	ReasonVehicleUnavailable Reason = "VehicleUnavailable"
	ReasonStoreUnavailable   Reason = "StoreUnavailable"
)

func (r Reason) String() string {
	return string(r)
}

// Step names a workflow step. The names double as log entry actions.
type Step string

const (
	StepGenerateParcelID   Step = "generate_parcel_id"
	StepAcquireVehicle     Step = "acquire_vehicle"
	StepFinalizeAssignment Step = "finalize_assignment"
	StepNotifyVehicle      Step = "notify_vehicle"
	StepNotifyRequester    Step = "notify_requester"
)

var stepTargets = map[Step]State{
	StepGenerateParcelID:   ParcelIDAcquired,
	StepAcquireVehicle:     VehicleAcquired,
	StepFinalizeAssignment: AssignmentPersisted,
	StepNotifyVehicle:      VehicleNotified,
	StepNotifyRequester:    RequesterNotified,
}

var stepFailureReasons = map[Step]Reason{
	StepGenerateParcelID:   ReasonIDGenUnavailable,
	StepAcquireVehicle:     ReasonVehicleUnavailable,
	StepFinalizeAssignment: ReasonStoreUnavailable,
}

func (s Step) String() string {
	return string(s)
}

// Target returns the state a run is in once the step has executed.
func (s Step) Target() State {
	return stepTargets[s]
}

// IsHard reports whether a failure of the step aborts the run.
func (s Step) IsHard() bool {
	_, ok := stepFailureReasons[s]
	return ok
}

// FailureReason returns the reason recorded when a hard step fails. Soft
// steps have none.
func (s Step) FailureReason() (Reason, bool) {
	r, ok := stepFailureReasons[s]
	return r, ok
}

// Steps lists the workflow steps in execution order.
func Steps() []Step {
	return []Step{
		StepGenerateParcelID,
		StepAcquireVehicle,
		StepFinalizeAssignment,
		StepNotifyVehicle,
		StepNotifyRequester,
	}
}
