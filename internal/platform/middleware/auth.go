package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator validates a delivery session token.
type TokenValidator interface {
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// SessionClaims are the claims extracted from a delivery session token.
type SessionClaims struct {
	EnumeratorID string
	SessionID    string
}

type contextKeyEnumeratorID struct{}
type contextKeySessionID struct{}

var (
	ContextKeyEnumeratorID = contextKeyEnumeratorID{}
	ContextKeySessionID    = contextKeySessionID{}
)

// GetEnumeratorID retrieves the authenticated enumerator ID from the context.
func GetEnumeratorID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyEnumeratorID).(string); ok {
		return v
	}
	return ""
}

// GetSessionID retrieves the delivery session ID from the context.
func GetSessionID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeySessionID).(string); ok {
		return v
	}
	return ""
}

// RequireSession guards endpoints that need a verified delivery session. The
// token is minted after OTP verification and carried as a Bearer token.
func RequireSession(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, ContextKeyEnumeratorID, claims.EnumeratorID)
			ctx = context.WithValue(ctx, ContextKeySessionID, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
