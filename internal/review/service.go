package review

import (
	"context"
	"fmt"
	"strings"
)

// Service provides review-related business logic, scoped to a parent
// book on every operation.
type Service struct {
	repo Repository
}

// NewService creates a new review service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListReviewsForBook returns all reviews of a book. A book with no
// reviews is a valid, empty result, not an error.
func (s *Service) ListReviewsForBook(ctx context.Context, bookID int64) ([]Review, error) {
	return s.repo.ListByBook(ctx, bookID)
}

// AddReview creates a review for an existing book and returns it with
// its assigned id.
func (s *Service) AddReview(ctx context.Context, bookID int64, text string) (Review, error) {
	if strings.TrimSpace(text) == "" {
		return Review{}, fmt.Errorf("%w: review text is required", ErrInvalid)
	}
	rv := Review{Review: text, BookID: bookID}
	if err := s.repo.Create(ctx, &rv); err != nil {
		return Review{}, err
	}
	return rv, nil
}

// UpdateReview replaces the text of a review after verifying that the
// review actually belongs to the named book. A review reachable under a
// different book id must never be edited through this path.
func (s *Service) UpdateReview(ctx context.Context, bookID, reviewID int64, text string) (Review, error) {
	if strings.TrimSpace(text) == "" {
		return Review{}, fmt.Errorf("%w: review text is required", ErrInvalid)
	}
	return s.repo.Update(ctx, bookID, reviewID, text)
}

// DeleteReview removes a review, subject to the same ownership check as
// UpdateReview.
func (s *Service) DeleteReview(ctx context.Context, bookID, reviewID int64) error {
	return s.repo.Delete(ctx, bookID, reviewID)
}
