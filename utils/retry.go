package utils

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryFixed runs fn up to attempts times, sleeping a fixed backoff between
// failed attempts. A nil return ends the loop immediately; fn returning an
// error on the last attempt surfaces as the wrapped final error. The backoff
// sleep respects ctx cancellation.
func RetryFixed(ctx context.Context, attempts int, backoff time.Duration, fn func() error, logger *zap.SugaredLogger) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			logger.Warnf("Retrying (attempt %d/%d) after %v...", attempt, attempts, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := fn(); err != nil {
			lastErr = err
			logger.Errorf("Attempt %d/%d failed: %v", attempt, attempts, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("all %d attempts failed, last error: %w", attempts, lastErr)
}
