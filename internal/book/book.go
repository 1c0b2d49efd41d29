package book

import (
	"errors"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrInvalid is returned when book data fails validation. The wrapping
// error names the offending field.
var ErrInvalid = errors.New("invalid book data")

// Book represents a book entity.
type Book struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Year        int     `json:"year"`
	Description *string `json:"description,omitempty"`
}

// CreateBook carries the mutable fields of a book. The same payload is
// used for creation and for full-replacement updates; the ID is never
// part of it.
type CreateBook struct {
	Title       string
	Author      string
	Year        int
	Description *string
}
