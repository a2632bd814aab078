package model

import "fmt"

const (
	PhaseUpload     = "upload"
	PhaseProcessing = "processing"
	PhaseComplete   = "complete"
	PhaseError      = "error"
)

var allowedTransitions = map[string]map[string]bool{
	PhaseUpload: {
		PhaseUpload:     true,
		PhaseProcessing: true, // submission accepted, or resume of a running job
		PhaseError:      true, // submission rejected before a job existed
	},
	PhaseProcessing: {
		PhaseProcessing: true,
		PhaseComplete:   true,
		PhaseError:      true,
		PhaseUpload:     true, // explicit cancel
	},
	PhaseComplete: {
		PhaseComplete: true,
		PhaseUpload:   true, // explicit reset
	},
	PhaseError: {
		PhaseError:  true,
		PhaseUpload: true, // explicit reset
	},
}

func IsKnownPhase(phase string) bool {
	_, ok := allowedTransitions[phase]
	return ok
}

func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func Transition(from, to string) (string, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("invalid phase transition: %q -> %q", from, to)
	}
	return to, nil
}
