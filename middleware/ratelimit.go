package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"

	"github.com/felixgeelhaar/conduit/service"
)

// RateLimitOption configures the rate limiter.
type RateLimitOption func(*rateLimitConfig)

type rateLimitConfig struct {
	logger Logger
	retry  time.Duration
}

// WithRateLimitLogger sets the logger for rate limit wait events.
func WithRateLimitLogger(l Logger) RateLimitOption {
	return func(o *rateLimitConfig) {
		o.logger = l
	}
}

// WithRateLimitRetryInterval sets how often readiness re-checks the bucket
// while tokens are exhausted. Defaults to 10ms.
func WithRateLimitRetryInterval(d time.Duration) RateLimitOption {
	return func(o *rateLimitConfig) {
		o.retry = d
	}
}

// RateLimit returns a layer that applies token-bucket backpressure.
// The rate is specified as requests per second; burst allows short bursts
// above the rate limit.
//
// Backpressure is signaled through the readiness protocol: Ready blocks
// until a token is available (re-checking every retry interval) and each
// successful readiness check reserves exactly one submission, consumed by
// the caller's next Call. Ready supports concurrent callers. As with
// ConcurrencyLimit, every successful readiness check must be paired with
// exactly one Call; a reservation that is never submitted burns its token.
func RateLimit[Req, Resp any](rate int, burst int, opts ...RateLimitOption) Layer[Req, Resp] {
	cfg := &rateLimitConfig{
		retry: 10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Create rate limiter with fortify
	limiter := ratelimit.New(&ratelimit.Config{
		Rate:     rate,
		Burst:    burst,
		Interval: time.Second,
	})

	return func(inner service.Service[Req, Resp]) service.Service[Req, Resp] {
		return &rateLimitService[Req, Resp]{inner: inner, limiter: limiter, cfg: cfg}
	}
}

// tokenBucket is the slice of the fortify limiter API this layer uses.
type tokenBucket interface {
	Allow(ctx context.Context, key string) bool
}

type rateLimitService[Req, Resp any] struct {
	inner   service.Service[Req, Resp]
	limiter tokenBucket
	cfg     *rateLimitConfig
}

func (s *rateLimitService[Req, Resp]) Ready(ctx context.Context) error {
	waited := false
	for {
		if s.limiter.Allow(ctx, "global") {
			return s.inner.Ready(ctx)
		}
		if !waited {
			waited = true
			if s.cfg.logger != nil {
				s.cfg.logger.Warn("rate limit reached, applying backpressure")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.retry):
		}
	}
}

func (s *rateLimitService[Req, Resp]) Call(ctx context.Context, req Req) *service.Future[Resp] {
	return s.inner.Call(ctx, req)
}
