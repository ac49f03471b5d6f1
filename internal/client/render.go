package client

import (
	"fmt"
	"strings"

	domain "github.com/bryanwahyu/insight/internal/domain/analysis"
)

// Render formats a result as plain text for export. Sections are joined the
// same way whether or not they have entries, so an empty list leaves a blank
// line under its header.
func Render(r domain.Result) string {
	findings := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		findings[i] = fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(f.Severity)), f.Title, f.Detail)
	}
	recs := make([]string, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		recs[i] = fmt.Sprintf("%d. %s", i+1, rec)
	}
	return fmt.Sprintf("Score: %d/100\n\n%s\n\nFindings:\n%s\n\nRecommendations:\n%s",
		r.Score, r.Summary, strings.Join(findings, "\n"), strings.Join(recs, "\n"))
}
