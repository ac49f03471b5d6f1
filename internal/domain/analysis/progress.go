package analysis

import "time"

// Phases are the progress labels shown while an analysis is in flight, in order.
var Phases = []string{
	"Parsing input...",
	"Running analysis...",
	"Identifying patterns...",
	"Generating insights...",
	"Compiling results...",
}

// PhaseInterval is how long each progress label is shown before the next.
const PhaseInterval = 1200 * time.Millisecond
