package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// GuardOptions tunes a Guard.
type GuardOptions struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	FailureThreshold  uint32
	OpenTimeout       time.Duration
}

// Guard wraps a Client with a per-call timeout, a token-bucket rate limit,
// and a circuit breaker. While the breaker is open the guard reports
// itself unavailable.
type Guard struct {
	next    Client
	timeout time.Duration
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
	logger  *slog.Logger
}

// NewGuard wraps next. A zero RequestsPerSecond disables rate limiting and
// a zero Timeout disables the per-call deadline.
func NewGuard(next Client, opts GuardOptions, logger *slog.Logger) *Guard {
	logger = logger.With("system", "completion")

	limit := rate.Limit(opts.RequestsPerSecond)
	if opts.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}

	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = math.MaxUint32
	}

	settings := gobreaker.Settings{
		Name:        "completion",
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &Guard{
		next:    next,
		timeout: opts.Timeout,
		limiter: rate.NewLimiter(limit, max(opts.Burst, 1)),
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		logger:  logger,
	}
}

// Available reports whether the wrapped client is configured and the breaker is not open.
func (g *Guard) Available() bool {
	return g.next.Available() && g.breaker.State() != gobreaker.StateOpen
}

// Complete waits for a rate-limit token and runs the call through the breaker
// under the configured timeout.
func (g *Guard) Complete(ctx context.Context, req Request) (string, error) {
	if !g.next.Available() {
		return "", ErrUnavailable
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.breaker.Execute(func() (string, error) {
		return g.next.Complete(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return text, err
}

// New builds the configured provider wrapped in a Guard.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (Client, error) {
	var (
		provider Client
		err      error
	)

	switch cfg.Provider {
	case ProviderGemini:
		provider, err = NewGemini(ctx, cfg)
	default:
		provider = NewOpenAI(cfg)
	}
	if err != nil {
		return nil, err
	}

	if !provider.Available() {
		logger.Warn("completion client unavailable: no api key configured", "provider", cfg.Provider)
	}

	return NewGuard(provider, GuardOptions{
		Timeout:           cfg.TimeoutDuration(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		FailureThreshold:  cfg.Breaker.FailureThreshold,
		OpenTimeout:       cfg.OpenTimeoutDuration(),
	}, logger), nil
}
