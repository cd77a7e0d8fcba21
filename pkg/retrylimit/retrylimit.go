// Package retrylimit provides adaptive rate limiting and retry helpers
// for unreliable backends. The bot uses it to shield Redis calls from
// transient connection failures and to throttle per-user command spam.
package retrylimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// AdaptiveLimiter manages a rate limit that adjusts automatically based
// on the outcome of requests: it creeps up on success and backs off on
// errors. Thread-safe.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter creates an AdaptiveLimiter starting at initial
// requests per second, bounded by [min, max]. stepUp is added after a
// quiet success period; stepDown multiplies the rate on failure.
func NewAdaptiveLimiter(initial, min, max rate.Limit, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if initial < 1 {
		initial = 1
	}
	if min < 1 {
		min = 1
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, maxInt(1, int(initial))),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return a.limiter.Wait(ctx)
}

// Success increases the rate after a successful request.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > 10*time.Second {
		a.adjust(a.limiter.Limit() + a.stepUp)
	}
}

// Failure reduces the rate after a failed request.
func (a *AdaptiveLimiter) Failure() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.adjust(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) adjust(newLimit rate.Limit) {
	if newLimit > a.maxLimit {
		newLimit = a.maxLimit
	} else if newLimit < a.minLimit {
		newLimit = a.minLimit
	}
	if newLimit != a.limiter.Limit() {
		a.limiter.SetLimit(newLimit)
		a.limiter.SetBurst(maxInt(1, int(newLimit)))
	}
}

// FatalError wraps errors that should stop retries immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// RetryConfig configures WithRetry behavior.
type RetryConfig struct {
	MaxAttempts  int           // 0 means DefaultMaxAttempts
	InitialDelay time.Duration // delay before the second attempt
	MaxDelay     time.Duration // backoff cap
	Multiplier   float64       // exponential backoff multiplier
}

// DefaultMaxAttempts bounds retries when RetryConfig.MaxAttempts is zero.
const DefaultMaxAttempts = 5

// DefaultRetryConfig returns the configuration used for Redis calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

// WithRetry executes fn with exponential backoff, waiting on lim (if
// non-nil) before every attempt. It stops when fn succeeds, fn returns
// a FatalError, the context is cancelled, or attempts run out.
func WithRetry(ctx context.Context, fn func() error, lim *AdaptiveLimiter) error {
	return WithRetryConfig(ctx, fn, lim, DefaultRetryConfig())
}

// WithRetryConfig is WithRetry with explicit settings.
func WithRetryConfig(ctx context.Context, fn func() error, lim *AdaptiveLimiter, cfg RetryConfig) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}

	var err error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if lim != nil {
			if werr := lim.Wait(ctx); werr != nil {
				return werr
			}
		}

		err = fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			return nil
		}

		var fatal *FatalError
		if errors.As(err, &fatal) {
			return fatal.Err
		}
		if lim != nil {
			lim.Failure()
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return err
}

// KeyedLimiter maintains an independent token bucket per key. The bot
// uses it to throttle command invocations per user.
type KeyedLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewKeyedLimiter allows `limit` events per second with the given burst
// for every distinct key.
func NewKeyedLimiter(limit rate.Limit, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   burst,
	}
}

// Allow reports whether an event for key may proceed now.
func (k *KeyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	lim, ok := k.buckets[key]
	if !ok {
		lim = rate.NewLimiter(k.limit, k.burst)
		k.buckets[key] = lim
	}
	k.mu.Unlock()
	return lim.Allow()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
