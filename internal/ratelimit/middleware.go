package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"sahayak/internal/platform/middleware"
)

// Guard limits requests per client IP. A limiter failure fails open: a broken
// limiter must not lock enumerators out of the OTP flow.
func Guard(limiter Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			result, err := limiter.Allow(ctx, clientIP(r))
			if err != nil {
				logger.ErrorContext(ctx, "rate limit check failed",
					"error", err.Error(),
					"request_id", middleware.GetRequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				retryAfter := int(result.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
