package analysis

import "strings"

// Severity enum
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Severities in display order, highest first.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity normalizes a model supplied severity. Anything outside
// high/medium/low becomes low.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Defaults applied when the model leaves a field out.
const (
	DefaultSummary = "Analysis complete."
	DefaultScore   = 50
	MinScore       = 0
	MaxScore       = 100
)

// Finding is one observation surfaced by the model.
type Finding struct {
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
	Detail   string   `json:"detail"`
}

// Result is the complete, normalized answer to one analysis request.
type Result struct {
	Summary         string    `json:"summary"`
	Findings        []Finding `json:"findings"`
	Recommendations []string  `json:"recommendations"`
	Score           int       `json:"score"`
}

// Count returns the number of findings with the given severity.
func (r *Result) Count(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// ClampScore keeps a score inside [MinScore, MaxScore].
func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// ScoreLabel is the verdict shown next to the score gauge.
func ScoreLabel(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Needs Attention"
	default:
		return "Critical"
	}
}
