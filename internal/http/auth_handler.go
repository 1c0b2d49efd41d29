package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"bookshelf/internal/httpx"
	"bookshelf/internal/platform/cognito"
)

// Authenticator exchanges credentials for a token set.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (cognito.Tokens, error)
}

type AuthHandler struct {
	auth   Authenticator
	logger *zap.Logger
}

func NewAuthHandler(auth Authenticator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "bad_request", "Invalid JSON body", nil)
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusUnprocessableEntity, "validation_failed", "Invalid credentials payload", details)
		return
	}

	tokens, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, cognito.ErrNotAuthorized):
			httpx.JSONError(r, w, http.StatusUnauthorized, "unauthorized", "Invalid username or password", nil)
		case errors.Is(err, cognito.ErrNotConfirmed):
			httpx.JSONError(r, w, http.StatusForbidden, "forbidden", "User account not confirmed", nil)
		default:
			h.logger.Error("login failed", zap.Error(err), zap.String("request_id", httpx.RequestIDFrom(r)))
			httpx.JSONError(r, w, http.StatusInternalServerError, "internal_error", "Authentication failed", nil)
		}
		return
	}

	httpx.JSONSuccess(r, w, tokens)
}
