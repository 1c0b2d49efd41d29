package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mocks/mock_repository.go -package=mocks

// Repository defines the contract for book data storage.
type Repository interface {
	// List returns all books in insertion order.
	List(ctx context.Context) ([]Book, error)
	// Get returns the book with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (Book, error)
	// Create persists a new book and assigns its ID.
	Create(ctx context.Context, b *Book) error
	// Update replaces all mutable fields of the book with b.ID, or
	// returns ErrNotFound without writing anything.
	Update(ctx context.Context, b Book) error
	// Delete removes the book and every review it owns, or returns
	// ErrNotFound.
	Delete(ctx context.Context, id int64) error
}
