package client

import domain "github.com/bryanwahyu/insight/internal/domain/analysis"

// State is the view state. The concrete types below are the only
// implementations.
type State interface {
	Name() string
	isState()
}

type Idle struct{}

// Analyzing carries the index of the progress phase being shown.
type Analyzing struct {
	Phase int
}

type Results struct {
	Result domain.Result
}

type Failure struct {
	Message string
}

func (Idle) Name() string      { return "idle" }
func (Analyzing) Name() string { return "analyzing" }
func (Results) Name() string   { return "results" }
func (Failure) Name() string   { return "error" }

func (Idle) isState()      {}
func (Analyzing) isState() {}
func (Results) isState()   {}
func (Failure) isState()   {}

// PhaseLabel returns the label for the current phase.
func (a Analyzing) PhaseLabel() string {
	if a.Phase < 0 || a.Phase >= len(domain.Phases) {
		return domain.Phases[len(domain.Phases)-1]
	}
	return domain.Phases[a.Phase]
}
