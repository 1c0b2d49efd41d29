package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"bookshelf/internal/book"
	"bookshelf/internal/httpx"
)

// Generator produces an introduction for a book.
type Generator interface {
	Introduce(ctx context.Context, b book.Book) (string, error)
}

type RecommendHandler struct {
	books     *book.Service
	generator Generator
	logger    *zap.Logger
}

func NewRecommendHandler(books *book.Service, generator Generator, logger *zap.Logger) *RecommendHandler {
	return &RecommendHandler{books: books, generator: generator, logger: logger}
}

// Introduce looks up the book and returns generated prose about it.
func (h *RecommendHandler) Introduce(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "bookID")
	if !ok {
		return
	}
	b, err := h.books.GetBook(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}

	introduction, err := h.generator.Introduce(r.Context(), b)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}

	httpx.JSONSuccess(r, w, map[string]interface{}{
		"book_id":      b.ID,
		"introduction": introduction,
	})
}
