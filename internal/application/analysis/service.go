package analysis

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/bryanwahyu/insight/internal/application"
	"github.com/bryanwahyu/insight/internal/domain/ai"
	domain "github.com/bryanwahyu/insight/internal/domain/analysis"
)

// Options tune a Service. Zero values fall back to the defaults below.
type Options struct {
	// Env var holding the provider credential, used in the 503 message.
	CredentialEnv string
	MaxTokens     int
	MaxInputChars int
	// Upper bound for one provider call; 0 means no bound.
	Timeout time.Duration
}

const (
	DefaultMaxTokens     = 2048
	DefaultMaxInputChars = 15000
	DefaultCredentialEnv = "ANTHROPIC_API_KEY"
)

// Service runs one analysis per call. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	provider ai.Provider
	prompt   string
	opts     Options
	clock    application.Clock
	logger   *log.Logger
}

// NewService builds a Service. A nil provider means the credential is not
// configured; every Analyze call then fails with ErrNotConfigured.
func NewService(provider ai.Provider, systemPrompt string, opts Options, clock application.Clock, logger *log.Logger) *Service {
	if opts.CredentialEnv == "" {
		opts.CredentialEnv = DefaultCredentialEnv
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = DefaultMaxInputChars
	}
	if clock == nil {
		clock = application.SystemClock{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{provider: provider, prompt: systemPrompt, opts: opts, clock: clock, logger: logger}
}

// Ready reports whether a provider is configured.
func (s *Service) Ready() error {
	if s.provider == nil {
		return domain.NotConfigured(s.opts.CredentialEnv)
	}
	return nil
}

// Check lets the service act as a health checker.
func (s *Service) Check(ctx context.Context) error {
	return s.Ready()
}

// Analyze validates input, asks the provider and normalizes its reply.
func (s *Service) Analyze(ctx context.Context, input string) (domain.Result, error) {
	if err := s.Ready(); err != nil {
		return domain.Result{}, err
	}
	if strings.TrimSpace(input) == "" {
		return domain.Result{}, domain.InvalidInput(domain.MsgInputRequired)
	}
	input = Truncate(input, s.opts.MaxInputChars)

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := s.clock.Now()
	segments, err := s.provider.Complete(ctx, s.prompt, input, s.opts.MaxTokens)
	if err != nil {
		return domain.Result{}, err
	}
	text := ai.JoinText(segments)
	s.logger.Printf("completion done segments=%d chars=%d duration=%s",
		len(segments), len(text), application.Since(s.clock, start))

	raw, ok := ExtractObject(text)
	if !ok {
		return domain.Result{}, domain.ParseFailed(nil)
	}
	res, err := Decode(raw)
	if err != nil {
		return domain.Result{}, domain.ParseFailed(err)
	}
	return res, nil
}
