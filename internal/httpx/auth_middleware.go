package httpx

import (
	"context"
	"net/http"
	"strings"

	"bookshelf/internal/platform/cognito"
)

// TokenVerifier validates a bearer token and returns its claim set.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*cognito.Claims, error)
}

// RequireRole rejects requests without a valid bearer token carrying the
// given role. Handlers behind it can rely on ClaimsFrom being non-nil;
// the service layer below never re-validates tokens.
func RequireRole(verifier TokenVerifier, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(r, w, http.StatusUnauthorized, "unauthorized", "Missing bearer token", nil)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				JSONError(r, w, http.StatusUnauthorized, "unauthorized", "Invalid token", nil)
				return
			}

			if !claims.HasRole(role) {
				JSONError(r, w, http.StatusForbidden, "forbidden", "Insufficient permissions", nil)
				return
			}

			ctx := ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
