package item

import (
	"context"
	"fmt"

	"anoa.com/lostfound/pkg/ratelimiter"
	"github.com/google/uuid"
)

// checkCreateRateLimit takes the global and the item cooldown. The returned
// cleanup releases both so a failed create does not cost the user a slot.
func (s *service) checkCreateRateLimit(ctx context.Context, userID uuid.UUID) (func(), error) {
	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, userID, ScopeGlobal, s.opts.RateLimitGlobal)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, userID, ScopeGlobal)
		return nil, &ratelimiter.RateLimitError{
			Message:    fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	allowed, err = ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, userID, ScopeItem, s.opts.RateLimitItem)
	if err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ScopeGlobal)
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ScopeGlobal)
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, userID, ScopeItem)
		return nil, &ratelimiter.RateLimitError{
			Message:    fmt.Sprintf("you can only post one item every %.0f seconds. Please wait %.0f seconds", s.opts.RateLimitItem.Seconds(), ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	cleanup := func() {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ScopeGlobal)
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ScopeItem)
	}
	return cleanup, nil
}
