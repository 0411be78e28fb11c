package form

// Phase is where a controller is in its submission lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseInvalid
	PhaseValid
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

var phaseNames = map[Phase]string{
	PhaseIdle:       "idle",
	PhaseValidating: "validating",
	PhaseInvalid:    "invalid",
	PhaseValid:      "valid",
	PhaseSubmitting: "submitting",
	PhaseSucceeded:  "succeeded",
	PhaseFailed:     "failed",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Succeeded and Failed are "idle with a result": both accept a new cycle.
var transitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseValidating, PhaseIdle},
	PhaseValidating: {PhaseInvalid, PhaseValid},
	PhaseInvalid:    {PhaseIdle},
	PhaseValid:      {PhaseSubmitting},
	PhaseSubmitting: {PhaseSucceeded, PhaseFailed},
	PhaseSucceeded:  {PhaseValidating, PhaseIdle},
	PhaseFailed:     {PhaseValidating, PhaseIdle},
}

// CanTransition reports whether the lifecycle allows moving from p to next.
func (p Phase) CanTransition(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Outcome is the visible state of the most recent submission.
type Outcome int

const (
	OutcomeIdle Outcome = iota
	OutcomeInFlight
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInFlight:
		return "in-flight"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "idle"
	}
}

// Result is the submission result shown to the visitor. Body is set only on
// success and Message only on failure.
type Result[R any] struct {
	Outcome Outcome
	Body    R
	Message string
}
