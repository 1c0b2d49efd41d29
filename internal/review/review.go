package review

import (
	"errors"
)

// ErrNotFound is returned when a review is not found.
var ErrNotFound = errors.New("review not found")

// ErrBookNotFound is returned when the parent book of a review operation
// does not exist.
var ErrBookNotFound = errors.New("book not found")

// ErrNotOwned is returned when a review exists but belongs to a different
// book than the one named in the request.
var ErrNotOwned = errors.New("review does not belong to this book")

// ErrInvalid is returned when review data fails validation.
var ErrInvalid = errors.New("invalid review data")

// Review represents a review of a single book. BookID is set at creation
// and never changes afterwards.
type Review struct {
	ID     int64  `json:"id"`
	Review string `json:"review"`
	BookID int64  `json:"book_id"`
}
