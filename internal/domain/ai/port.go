package ai

import (
	"context"
	"strings"
)

// SegmentType names the kind of a reply segment.
type SegmentType string

const SegmentText SegmentType = "text"

// Segment is one typed piece of a completion reply.
type Segment struct {
	Type SegmentType
	Text string
}

// Provider is the text completion service.
type Provider interface {
	Complete(ctx context.Context, system, userText string, maxTokens int) ([]Segment, error)
}

// JoinText concatenates the text segments in order, skipping every other type.
func JoinText(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		if s.Type == SegmentText {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}
