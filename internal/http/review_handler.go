package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"bookshelf/internal/httpx"
	"bookshelf/internal/review"
)

type ReviewHandler struct {
	svc    *review.Service
	logger *zap.Logger
}

func NewReviewHandler(svc *review.Service, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger}
}

type reviewRequest struct {
	Review string `json:"review" validate:"required"`
}

// ListByBook returns the book's reviews. A book with no reviews is a 200
// with an empty list; only an absent book is a 404.
func (h *ReviewHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(w, r, "bookID")
	if !ok {
		return
	}
	reviews, err := h.svc.ListReviewsForBook(r.Context(), bookID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	if reviews == nil {
		reviews = []review.Review{}
	}
	httpx.JSONSuccess(r, w, reviews)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(w, r, "bookID")
	if !ok {
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "bad_request", "Invalid JSON body", nil)
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusUnprocessableEntity, "validation_failed", "Invalid review data", details)
		return
	}

	rv, err := h.svc.AddReview(r.Context(), bookID, req.Review)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	httpx.JSONSuccessCreated(r, w, rv)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(w, r, "bookID")
	if !ok {
		return
	}
	reviewID, ok := pathID(w, r, "reviewID")
	if !ok {
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "bad_request", "Invalid JSON body", nil)
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusUnprocessableEntity, "validation_failed", "Invalid review data", details)
		return
	}

	rv, err := h.svc.UpdateReview(r.Context(), bookID, reviewID, req.Review)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	httpx.JSONSuccess(r, w, rv)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(w, r, "bookID")
	if !ok {
		return
	}
	reviewID, ok := pathID(w, r, "reviewID")
	if !ok {
		return
	}
	if err := h.svc.DeleteReview(r.Context(), bookID, reviewID); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
