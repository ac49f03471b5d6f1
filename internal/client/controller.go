package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	domain "github.com/bryanwahyu/insight/internal/domain/analysis"
)

// Analyzer runs one analysis. HTTPAnalyzer is the production implementation.
type Analyzer interface {
	Analyze(ctx context.Context, input string) (domain.Result, error)
}

const (
	fallbackResponseMessage  = "Analysis failed"
	fallbackTransportMessage = "Network error"
)

// Controller holds the view state of one analysis screen. It allows at most
// one request in flight.
type Controller struct {
	analyzer Analyzer
	interval time.Duration

	mu       sync.Mutex
	input    string
	state    State
	onChange func(State)
}

func NewController(analyzer Analyzer) *Controller {
	return &Controller{analyzer: analyzer, interval: domain.PhaseInterval, state: Idle{}}
}

// SetOnChange registers fn to be called after every state change. fn runs
// without the controller lock held.
func (c *Controller) SetOnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller) SetInput(s string) {
	c.mu.Lock()
	c.input = s
	c.mu.Unlock()
}

func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CanAnalyze reports whether Analyze would start a request.
func (c *Controller) CanAnalyze() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canAnalyzeLocked()
}

func (c *Controller) canAnalyzeLocked() bool {
	_, busy := c.state.(Analyzing)
	return !busy && strings.TrimSpace(c.input) != ""
}

// Analyze runs one request and blocks until it settles. It returns false
// without doing anything when the input is blank or a request is in flight.
func (c *Controller) Analyze(ctx context.Context) bool {
	c.mu.Lock()
	if !c.canAnalyzeLocked() {
		c.mu.Unlock()
		return false
	}
	input := c.input
	c.state = Analyzing{}
	progress := StartProgress(c.interval, len(domain.Phases), c.advance)
	c.mu.Unlock()
	c.notify()

	res, err := c.analyzer.Analyze(ctx, input)

	// Stop before taking the lock: advance needs it.
	progress.Stop()

	c.mu.Lock()
	if err != nil {
		c.state = Failure{Message: failureMessage(err)}
	} else {
		c.state = Results{Result: res}
	}
	c.mu.Unlock()
	c.notify()
	return true
}

func (c *Controller) advance(phase int) {
	c.mu.Lock()
	if _, ok := c.state.(Analyzing); !ok {
		c.mu.Unlock()
		return
	}
	c.state = Analyzing{Phase: phase}
	c.mu.Unlock()
	c.notify()
}

// Reset starts over from results.
func (c *Controller) Reset() {
	c.clearFrom(func(s State) bool { _, ok := s.(Results); return ok })
}

// TryAgain starts over from an error.
func (c *Controller) TryAgain() {
	c.clearFrom(func(s State) bool { _, ok := s.(Failure); return ok })
}

func (c *Controller) clearFrom(allowed func(State) bool) {
	c.mu.Lock()
	if !allowed(c.state) {
		c.mu.Unlock()
		return
	}
	c.input = ""
	c.state = Idle{}
	c.mu.Unlock()
	c.notify()
}

// ExportText returns the plain-text rendering of the current result, or ""
// when there is none.
func (c *Controller) ExportText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.state.(Results); ok {
		return Render(r.Result)
	}
	return ""
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn, s := c.onChange, c.state
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func failureMessage(err error) string {
	var re *ResponseError
	if errors.As(err, &re) {
		if re.Message == "" {
			return fallbackResponseMessage
		}
		return re.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackTransportMessage
}
