package outbound

import (
	"context"
	"time"
)

// RateLimiterPort defines rate limiting operations.
type RateLimiterPort interface {
	// Allow checks if a request is allowed within rate limits.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// GetRemaining returns the remaining requests in the current window.
	GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}
