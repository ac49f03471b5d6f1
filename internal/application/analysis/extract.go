package analysis

import (
	"encoding/json"
	"math"
	"unicode/utf8"

	domain "github.com/bryanwahyu/insight/internal/domain/analysis"
)

// ExtractObject returns the span from the first '{' to the last '}' in text.
// The scan is greedy and does not balance braces: prose with stray braces or
// several objects produces a span that later fails to decode.
func ExtractObject(text string) (string, bool) {
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}
	for end := len(text) - 1; end > start; end-- {
		if text[end] == '}' {
			return text[start : end+1], true
		}
	}
	return "", false
}

// Truncate cuts s to at most n characters (runes). n <= 0 disables the cut.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Decode parses the extracted object and coerces it into a well formed
// Result. Only invalid JSON is an error; missing or mistyped fields fall
// back to defaults.
func Decode(raw string) (domain.Result, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return domain.Result{}, err
	}

	res := domain.Result{
		Summary:         domain.DefaultSummary,
		Findings:        []domain.Finding{},
		Recommendations: []string{},
		Score:           domain.DefaultScore,
	}

	if s, ok := asString(obj["summary"]); ok && s != "" {
		res.Summary = s
	}

	if items, ok := asArray(obj["findings"]); ok {
		for _, it := range items {
			var f map[string]json.RawMessage
			if err := json.Unmarshal(it, &f); err != nil || f == nil {
				continue
			}
			title, _ := asString(f["title"])
			sev, _ := asString(f["severity"])
			detail, _ := asString(f["detail"])
			res.Findings = append(res.Findings, domain.Finding{
				Title:    title,
				Severity: domain.ParseSeverity(sev),
				Detail:   detail,
			})
		}
	}

	if items, ok := asArray(obj["recommendations"]); ok {
		for _, it := range items {
			if s, ok := asString(it); ok {
				res.Recommendations = append(res.Recommendations, s)
			}
		}
	}

	if n, ok := asNumber(obj["score"]); ok {
		res.Score = clamp(n)
	}

	return res, nil
}

func clamp(n float64) int {
	n = math.Round(n)
	if n < domain.MinScore {
		return domain.MinScore
	}
	if n > domain.MaxScore {
		return domain.MaxScore
	}
	return int(n)
}

// The helpers below decode through `any` so that JSON null and other types
// are told apart from a real value.

func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func asNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}
