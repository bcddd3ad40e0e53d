package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/preplab/ielts-api/internal/generation"
)

// retryPolicy is the caller-side policy for transport failures. The gateway
// itself never retries (see generation.Invoker); services own the decision
// of how often and how patiently to try again.
type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
}

// invokeWithRetry calls the invoker, retrying only transport failures
// (generation.ErrNetwork) with exponential backoff and jitter. Upstream
// rejections and empty responses are returned immediately: retrying them
// blindly would re-send input the model already rejected.
func invokeWithRetry(
	ctx context.Context,
	log *slog.Logger,
	invoker generation.Invoker,
	req generation.Request,
	policy retryPolicy,
) (*generation.RawResult, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= policy.maxRetries; attempt++ {
		result, err := invoker.Invoke(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !errors.Is(err, generation.ErrNetwork) {
			return nil, err
		}

		if attempt == policy.maxRetries {
			break
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(policy.baseDelay) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitter)

		log.WarnContext(ctx, "transport failure calling model, retrying",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", policy.maxRetries+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrNetwork, ctx.Err())
		}
	}

	return nil, fmt.Errorf("exceeded maximum retry attempts (%d): %w", policy.maxRetries, lastErr)
}
