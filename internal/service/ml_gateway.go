package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/homespark/backend/internal/domain"
)

const (
	defaultAttemptTimeout = 30 * time.Second
	defaultBaseDelay      = time.Second
	defaultMaxDelay       = 5 * time.Second
	mlHealthTimeout       = 5 * time.Second
)

// MLGateway wraps a RecommendationClient with per-attempt timeouts and
// bounded exponential backoff. Attempts are strictly sequential.
type MLGateway struct {
	client         RecommendationClient
	maxRetries     int
	attemptTimeout time.Duration
	baseDelay      time.Duration
	maxDelay       time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// NewMLGateway creates a new ML gateway. maxRetries counts retries after the
// first attempt, so 2 means at most three calls.
func NewMLGateway(client RecommendationClient, maxRetries int, attemptTimeout time.Duration) *MLGateway {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	return &MLGateway{
		client:         client,
		maxRetries:     maxRetries,
		attemptTimeout: attemptTimeout,
		baseDelay:      defaultBaseDelay,
		maxDelay:       defaultMaxDelay,
		sleep:          sleepContext,
	}
}

// Call performs the ML request, retrying transient failures. The returned
// error is always a classified *domain.Error.
func (g *MLGateway) Call(ctx context.Context, req domain.MLRequest) (domain.RawMLResponse, error) {
	var lastErr error
	total := g.maxRetries + 1

	for attempt := 1; attempt <= total; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
		resp, err := g.client.Recommend(attemptCtx, req)
		cancel()
		if err == nil {
			if attempt > 1 {
				log.Printf("[ML-GATEWAY] succeeded on attempt %d/%d", attempt, total)
			}
			return resp, nil
		}

		lastErr = classifyGatewayError(err)
		if errors.Is(lastErr, domain.ErrMalformedResponse) {
			log.Printf("[ML-GATEWAY] malformed response: %v", lastErr)
			return domain.RawMLResponse{}, lastErr
		}
		if !isRetryable(lastErr) {
			log.Printf("[ML-GATEWAY] attempt %d/%d failed, not retrying: %v", attempt, total, lastErr)
			return domain.RawMLResponse{}, lastErr
		}
		if attempt == total {
			break
		}

		wait := g.backoff(attempt)
		log.Printf("[ML-GATEWAY] attempt %d/%d failed: %v (retrying in %s)", attempt, total, lastErr, wait)
		if err := g.sleep(ctx, wait); err != nil {
			return domain.RawMLResponse{}, domain.NewError(domain.ErrMLTimeout, "ML request cancelled during backoff", err)
		}
	}

	log.Printf("[ML-GATEWAY] all %d attempts failed: %v", total, lastErr)
	return domain.RawMLResponse{}, lastErr
}

// Health probes the ML service. It never fails; problems are reported in
// the returned status.
func (g *MLGateway) Health(ctx context.Context) domain.MLHealth {
	hctx, cancel := context.WithTimeout(ctx, mlHealthTimeout)
	defer cancel()

	health, err := g.client.Health(hctx)
	if err != nil {
		return domain.MLHealth{
			Healthy:   false,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Error:     err.Error(),
		}
	}
	return health
}

// backoff returns base * 2^(attempt-1), capped at maxDelay
func (g *MLGateway) backoff(attempt int) time.Duration {
	d := g.baseDelay << (attempt - 1)
	if d <= 0 || d > g.maxDelay {
		return g.maxDelay
	}
	return d
}

func classifyGatewayError(err error) error {
	var e *domain.Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewError(domain.ErrMLTimeout, "", err)
	}
	return domain.NewError(domain.ErrMLUnreachable, "", err)
}

func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrMLUnreachable) ||
		errors.Is(err, domain.ErrMLTimeout) ||
		errors.Is(err, domain.ErrMLServerError)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
