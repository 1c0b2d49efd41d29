package review

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mocks/mock_repository.go -package=mocks

// Repository defines the contract for review data storage. Every
// operation that names a review also names the book it is expected to
// belong to; the ownership check is part of the contract, not a caller
// courtesy.
type Repository interface {
	// ListByBook returns the reviews of the given book in insertion
	// order. A book without reviews yields an empty slice; an absent
	// book yields ErrBookNotFound.
	ListByBook(ctx context.Context, bookID int64) ([]Review, error)
	// Create persists a new review for an existing book and assigns
	// its ID. Returns ErrBookNotFound without writing when the book is
	// absent.
	Create(ctx context.Context, rv *Review) error
	// Update replaces the review text. Returns ErrBookNotFound when the
	// book is absent, ErrNotFound when the review is absent, and
	// ErrNotOwned when the review belongs to a different book. The
	// review is left untouched in every failure case.
	Update(ctx context.Context, bookID, reviewID int64, text string) (Review, error)
	// Delete removes a single review, with the same ownership rules as
	// Update.
	Delete(ctx context.Context, bookID, reviewID int64) error
}
