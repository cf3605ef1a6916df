package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/grocemart/grocemart-backend/api/responses"
	"github.com/grocemart/grocemart-backend/pkg/config"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
	"github.com/grocemart/grocemart-backend/pkg/logger"
)

// RateLimiterStore is the fixed-window counter surface backing rate limits.
type RateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// QuoteRateLimit throttles shipping quote requests per customer. A nil store
// or a non-positive limit disables the middleware.
func QuoteRateLimit(cfg config.RateLimitConfig, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || cfg.QuoteLimit <= 0 || cfg.QuoteWindow <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID := UserIDFromContext(ctx)
			if userID == "" {
				// Auth runs first; an anonymous request here is a routing bug.
				next.ServeHTTP(w, r)
				return
			}

			allowed, count, err := store.FixedWindowAllow(ctx, "quote:"+userID, int64(cfg.QuoteLimit), cfg.QuoteWindow)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"attempts":       count,
						"limit":          cfg.QuoteLimit,
						"window_seconds": int(cfg.QuoteWindow.Seconds()),
					})
					logg.Warn(logCtx, "shipping quote rate limit exceeded")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many quote requests, slow down"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
