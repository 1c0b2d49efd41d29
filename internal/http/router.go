// Package http is the transport layer: routing, request validation and
// the mapping of domain outcomes to status codes. All persistence rules
// live below it in the book and review services.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bookshelf/internal/book"
	"bookshelf/internal/httpx"
	"bookshelf/internal/review"
)

const maxBodyBytes = 1 << 20

// RouterDeps carries everything the router wires together. Nil
// collaborators disable their routes; a nil Verifier leaves the review
// mutations open, which is only meant for local development.
type RouterDeps struct {
	Books   *book.Service
	Reviews *review.Service

	Generator    Generator
	Auth         Authenticator
	Verifier     httpx.TokenVerifier
	RequiredRole string

	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string

	// Ready reports whether the entity store is reachable.
	Ready func(ctx context.Context) error

	Logger *zap.Logger
}

// NewRouter builds the full HTTP handler tree.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.RecoveryMiddleware(logger))
	r.Use(httpx.AccessLogMiddleware(logger))
	r.Use(httpx.SecurityHeadersMiddleware)
	r.Use(httpx.RequestSizeLimitMiddleware(maxBodyBytes))
	if len(deps.AllowedOrigins) > 0 {
		r.Use(httpx.CORSMiddleware(deps.AllowedOrigins))
	}
	if deps.RateLimitRPS > 0 {
		r.Use(httpx.NewRateLimitMiddleware(deps.RateLimitRPS, deps.RateLimitBurst).Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 500*time.Millisecond)
		defer cancel()
		if deps.Ready != nil {
			if err := deps.Ready(ctx); err != nil {
				http.Error(w, "store not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	bookHandler := NewBookHandler(deps.Books, logger)
	reviewHandler := NewReviewHandler(deps.Reviews, logger)

	mutateReviews := func(r chi.Router) chi.Router {
		if deps.Verifier == nil {
			return r
		}
		return r.With(httpx.RequireRole(deps.Verifier, deps.RequiredRole))
	}

	r.Route("/books", func(r chi.Router) {
		r.Get("/", bookHandler.List)
		r.Post("/", bookHandler.Create)

		r.Route("/{bookID}", func(r chi.Router) {
			r.Get("/", bookHandler.Get)
			r.Put("/", bookHandler.Update)
			r.Delete("/", bookHandler.Delete)

			r.Get("/reviews", reviewHandler.ListByBook)
			mutateReviews(r).Post("/reviews", reviewHandler.Create)
			mutateReviews(r).Put("/reviews/{reviewID}", reviewHandler.Update)
			r.Delete("/reviews/{reviewID}", reviewHandler.Delete)
		})
	})

	r.Get("/stats/titles", bookHandler.TitleStats)

	if deps.Generator != nil {
		recommendHandler := NewRecommendHandler(deps.Books, deps.Generator, logger)
		r.Get("/recommendation/{bookID}", recommendHandler.Introduce)
	}

	if deps.Auth != nil {
		authHandler := NewAuthHandler(deps.Auth, logger)
		r.Post("/auth/login", authHandler.Login)
	}

	return r
}
