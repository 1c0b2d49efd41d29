package httpx

import (
	"context"
	"net/http"

	"bookshelf/internal/platform/cognito"
)

type contextKey string

const (
	claimsKey    contextKey = "claims"
	requestIDKey contextKey = "requestID"
)

// ClaimsFrom retrieves the validated claim set from the request context.
func ClaimsFrom(r *http.Request) *cognito.Claims {
	if v, ok := r.Context().Value(claimsKey).(*cognito.Claims); ok {
		return v
	}
	return nil
}

// ContextWithClaims returns a new context carrying the claim set.
func ContextWithClaims(ctx context.Context, claims *cognito.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// RequestIDFrom retrieves the request id from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
