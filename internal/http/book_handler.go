package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"bookshelf/internal/book"
	"bookshelf/internal/httpx"
)

type BookHandler struct {
	svc    *book.Service
	logger *zap.Logger
}

func NewBookHandler(svc *book.Service, logger *zap.Logger) *BookHandler {
	return &BookHandler{svc: svc, logger: logger}
}

type bookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Year        int     `json:"year" validate:"required,gte=1,lte=2500"`
	Description *string `json:"description"`
}

func (br bookRequest) payload() book.CreateBook {
	return book.CreateBook{
		Title:       br.Title,
		Author:      br.Author,
		Year:        br.Year,
		Description: br.Description,
	}
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.ListBooks(r.Context())
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	if books == nil {
		books = []book.Book{}
	}
	httpx.JSONSuccess(r, w, books)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "bookID")
	if !ok {
		return
	}
	b, err := h.svc.GetBook(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	httpx.JSONSuccess(r, w, b)
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "bad_request", "Invalid JSON body", nil)
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusUnprocessableEntity, "validation_failed", "Invalid book data", details)
		return
	}

	b, err := h.svc.AddBook(r.Context(), req.payload())
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	httpx.JSONSuccessCreated(r, w, b)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "bookID")
	if !ok {
		return
	}
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "bad_request", "Invalid JSON body", nil)
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusUnprocessableEntity, "validation_failed", "Invalid book data", details)
		return
	}

	b, err := h.svc.UpdateBook(r.Context(), id, req.payload())
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	httpx.JSONSuccess(r, w, b)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "bookID")
	if !ok {
		return
	}
	if err := h.svc.DeleteBook(r.Context(), id); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// TitleStats reports title lengths and the most common title words
// across the whole collection.
func (h *BookHandler) TitleStats(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.ListBooks(r.Context())
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	httpx.JSONSuccess(r, w, map[string]interface{}{
		"title_lengths":     book.TitleLengths(books),
		"most_common_words": book.MostCommonTitleWords(books, 10),
	})
}
