package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bookshelf/internal/book"
	"bookshelf/internal/httpx"
	"bookshelf/internal/platform/recommend"
	"bookshelf/internal/review"
)

// writeDomainError maps a service error to a transport status. The
// services themselves are transport-agnostic; this is the only place
// status codes appear.
func writeDomainError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, book.ErrNotFound), errors.Is(err, review.ErrBookNotFound):
		httpx.JSONError(r, w, http.StatusNotFound, "not_found", "Book not found", nil)
	case errors.Is(err, review.ErrNotFound):
		httpx.JSONError(r, w, http.StatusNotFound, "not_found", "Review not found", nil)
	case errors.Is(err, review.ErrNotOwned):
		httpx.JSONError(r, w, http.StatusNotFound, "ownership_mismatch", "Review does not belong to this book", nil)
	case errors.Is(err, book.ErrInvalid), errors.Is(err, review.ErrInvalid):
		httpx.JSONError(r, w, http.StatusUnprocessableEntity, "validation_failed", err.Error(), nil)
	case errors.Is(err, recommend.ErrUpstream):
		logger.Error("recommendation upstream failed", zap.Error(err), zap.String("request_id", httpx.RequestIDFrom(r)))
		httpx.JSONError(r, w, http.StatusBadGateway, "upstream_error", "Recommendation service unavailable", nil)
	default:
		logger.Error("storage failure", zap.Error(err), zap.String("request_id", httpx.RequestIDFrom(r)))
		httpx.JSONError(r, w, http.StatusInternalServerError, "internal_error", "server error", nil)
	}
}

// pathID parses a numeric chi path parameter. The bool result is false
// after a 400 has already been written.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "bad_request", name+" must be an integer", nil)
		return 0, false
	}
	return id, true
}
