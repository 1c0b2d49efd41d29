package book

import (
	"context"
	"fmt"
	"strings"
)

// Service provides book-related business logic. It holds no state of its
// own beyond the repository handle, so a single instance is safe to reuse
// across requests.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListBooks returns all books in insertion order.
func (s *Service) ListBooks(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// GetBook returns a book by its id.
func (s *Service) GetBook(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

// AddBook validates the payload, persists a new book and returns it with
// its assigned id.
func (s *Service) AddBook(ctx context.Context, in CreateBook) (Book, error) {
	if err := validate(in); err != nil {
		return Book{}, err
	}
	b := Book{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Year:        in.Year,
		Description: in.Description,
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// UpdateBook replaces every mutable field of the book with the given id.
// The id itself is immutable. Returns ErrNotFound when the book is absent.
func (s *Service) UpdateBook(ctx context.Context, id int64, in CreateBook) (Book, error) {
	if err := validate(in); err != nil {
		return Book{}, err
	}
	b := Book{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Year:        in.Year,
		Description: in.Description,
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// DeleteBook removes a book and all of its reviews.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(in CreateBook) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if strings.TrimSpace(in.Author) == "" {
		return fmt.Errorf("%w: author is required", ErrInvalid)
	}
	if in.Year < 1 || in.Year > 2500 {
		return fmt.Errorf("%w: year %d is out of range", ErrInvalid, in.Year)
	}
	return nil
}
