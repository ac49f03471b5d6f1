package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/insight/internal/domain/analysis"
)

type stubAnalyzer struct {
	mu      sync.Mutex
	calls   int
	inputs  []string
	release chan struct{}
	res     domain.Result
	err     error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, input string) (domain.Result, error) {
	s.mu.Lock()
	s.calls++
	s.inputs = append(s.inputs, input)
	s.mu.Unlock()
	if s.release != nil {
		<-s.release
	}
	return s.res, s.err
}

func (s *stubAnalyzer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var sample = domain.Result{
	Summary:         "S",
	Findings:        []domain.Finding{{Title: "T", Severity: domain.SeverityHigh, Detail: "D"}},
	Recommendations: []string{"R"},
	Score:           100,
}

func TestAnalyzeBlankInputIsNoop(t *testing.T) {
	a := &stubAnalyzer{}
	c := NewController(a)

	c.SetInput("   \n")
	assert.False(t, c.CanAnalyze())
	assert.False(t, c.Analyze(context.Background()))
	assert.Zero(t, a.callCount())
	assert.Equal(t, Idle{}, c.State())
}

func TestAnalyzeSuccess(t *testing.T) {
	a := &stubAnalyzer{res: sample}
	c := NewController(a)

	var names []string
	c.SetOnChange(func(s State) { names = append(names, s.Name()) })
	c.SetInput("sample log")
	require.True(t, c.Analyze(context.Background()))

	assert.Equal(t, Results{Result: sample}, c.State())
	assert.Equal(t, []string{"analyzing", "results"}, names)
	assert.Equal(t, []string{"sample log"}, a.inputs)
	assert.Equal(t, "Score: 100/100\n\nS\n\nFindings:\n[HIGH] T: D\n\nRecommendations:\n1. R", c.ExportText())
}

func TestAnalyzeSingleFlight(t *testing.T) {
	a := &stubAnalyzer{release: make(chan struct{}), res: sample}
	c := NewController(a)
	c.SetInput("x")

	done := make(chan bool)
	go func() { done <- c.Analyze(context.Background()) }()

	require.Eventually(t, func() bool { return a.callCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "analyzing", c.State().Name())
	assert.False(t, c.CanAnalyze())
	assert.False(t, c.Analyze(context.Background()))

	// Reset and TryAgain do nothing while in flight.
	c.Reset()
	c.TryAgain()
	assert.Equal(t, "analyzing", c.State().Name())

	close(a.release)
	assert.True(t, <-done)
	assert.Equal(t, 1, a.callCount())
	assert.Equal(t, "results", c.State().Name())
}

func TestAnalyzeFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"response message", &ResponseError{Status: 503, Message: "AI service not configured."}, "AI service not configured."},
		{"response without message", &ResponseError{Status: 500}, "Analysis failed"},
		{"transport", errors.New("connection refused"), "connection refused"},
		{"transport without message", errors.New(""), "Network error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController(&stubAnalyzer{err: tc.err})
			c.SetInput("x")
			require.True(t, c.Analyze(context.Background()))
			assert.Equal(t, Failure{Message: tc.want}, c.State())
			assert.Empty(t, c.ExportText())
		})
	}
}

func TestResetAndTryAgain(t *testing.T) {
	c := NewController(&stubAnalyzer{res: sample})
	c.SetInput("x")
	c.Analyze(context.Background())

	c.TryAgain() // not in error: ignored
	assert.Equal(t, "results", c.State().Name())
	c.Reset()
	assert.Equal(t, Idle{}, c.State())
	assert.Empty(t, c.Input())

	c = NewController(&stubAnalyzer{err: errors.New("boom")})
	c.SetInput("x")
	c.Analyze(context.Background())
	c.Reset() // not in results: ignored
	assert.Equal(t, "error", c.State().Name())
	c.TryAgain()
	assert.Equal(t, Idle{}, c.State())
	assert.Empty(t, c.Input())
}

func TestProgressAdvancesAndStopsWithRequest(t *testing.T) {
	a := &stubAnalyzer{release: make(chan struct{}), res: sample}
	c := NewController(a)
	c.interval = time.Millisecond
	c.SetInput("x")

	done := make(chan struct{})
	go func() { c.Analyze(context.Background()); close(done) }()

	last := len(domain.Phases) - 1
	require.Eventually(t, func() bool {
		s, ok := c.State().(Analyzing)
		return ok && s.Phase == last
	}, time.Second, time.Millisecond)
	assert.Equal(t, "Compiling results...", c.State().(Analyzing).PhaseLabel())

	close(a.release)
	<-done
	assert.Equal(t, "results", c.State().Name())
}

func TestStartProgressSaturatesAndStops(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	p := StartProgress(time.Millisecond, 3, func(phase int) {
		mu.Lock()
		seen = append(seen, phase)
		mu.Unlock()
	})
	time.Sleep(30 * time.Millisecond)
	p.Stop()
	p.Stop()

	mu.Lock()
	got := append([]int(nil), seen...)
	mu.Unlock()
	assert.Equal(t, []int{1, 2}, got)

	time.Sleep(5 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, got, seen)
}
