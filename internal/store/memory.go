// Package store holds the in-memory entity store. It implements the
// same repository contracts as the Postgres repos and backs both the
// memory store driver and the service-level tests.
package store

import (
	"context"
	"sync"

	"bookshelf/internal/book"
	"bookshelf/internal/review"
)

// Memory owns both entity collections behind one mutex so a book delete
// and its review cascade are a single atomic step, mirroring what the
// relational store does in one transaction.
type Memory struct {
	mu           sync.RWMutex
	books        map[int64]book.Book
	bookOrder    []int64
	reviews      map[int64]review.Review
	reviewOrder  []int64
	nextBookID   int64
	nextReviewID int64
}

func NewMemory() *Memory {
	return &Memory{
		books:        make(map[int64]book.Book),
		reviews:      make(map[int64]review.Review),
		nextBookID:   1,
		nextReviewID: 1,
	}
}

// Books returns the book.Repository view of the store.
func (m *Memory) Books() book.Repository {
	return memoryBooks{m}
}

// Reviews returns the review.Repository view of the store.
func (m *Memory) Reviews() review.Repository {
	return memoryReviews{m}
}

type memoryBooks struct {
	m *Memory
}

func (r memoryBooks) List(_ context.Context) ([]book.Book, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var out []book.Book
	for _, id := range r.m.bookOrder {
		out = append(out, r.m.books[id])
	}
	return out, nil
}

func (r memoryBooks) Get(_ context.Context, id int64) (book.Book, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	b, ok := r.m.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

func (r memoryBooks) Create(_ context.Context, b *book.Book) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	b.ID = r.m.nextBookID
	r.m.nextBookID++
	r.m.books[b.ID] = *b
	r.m.bookOrder = append(r.m.bookOrder, b.ID)
	return nil
}

func (r memoryBooks) Update(_ context.Context, b book.Book) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.books[b.ID]; !ok {
		return book.ErrNotFound
	}
	r.m.books[b.ID] = b
	return nil
}

func (r memoryBooks) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.books[id]; !ok {
		return book.ErrNotFound
	}
	delete(r.m.books, id)
	r.m.bookOrder = removeID(r.m.bookOrder, id)

	// cascade
	for rvID, rv := range r.m.reviews {
		if rv.BookID == id {
			delete(r.m.reviews, rvID)
			r.m.reviewOrder = removeID(r.m.reviewOrder, rvID)
		}
	}
	return nil
}

type memoryReviews struct {
	m *Memory
}

func (r memoryReviews) ListByBook(_ context.Context, bookID int64) ([]review.Review, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	if _, ok := r.m.books[bookID]; !ok {
		return nil, review.ErrBookNotFound
	}
	out := []review.Review{}
	for _, id := range r.m.reviewOrder {
		if rv := r.m.reviews[id]; rv.BookID == bookID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r memoryReviews) Create(_ context.Context, rv *review.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.books[rv.BookID]; !ok {
		return review.ErrBookNotFound
	}
	rv.ID = r.m.nextReviewID
	r.m.nextReviewID++
	r.m.reviews[rv.ID] = *rv
	r.m.reviewOrder = append(r.m.reviewOrder, rv.ID)
	return nil
}

func (r memoryReviews) Update(_ context.Context, bookID, reviewID int64, text string) (review.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	rv, err := r.owned(bookID, reviewID)
	if err != nil {
		return review.Review{}, err
	}
	rv.Review = text
	r.m.reviews[reviewID] = rv
	return rv, nil
}

func (r memoryReviews) Delete(_ context.Context, bookID, reviewID int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, err := r.owned(bookID, reviewID); err != nil {
		return err
	}
	delete(r.m.reviews, reviewID)
	r.m.reviewOrder = removeID(r.m.reviewOrder, reviewID)
	return nil
}

// owned mirrors the relational repo's ownership check. Callers hold the
// write lock.
func (r memoryReviews) owned(bookID, reviewID int64) (review.Review, error) {
	if _, ok := r.m.books[bookID]; !ok {
		return review.Review{}, review.ErrBookNotFound
	}
	rv, ok := r.m.reviews[reviewID]
	if !ok {
		return review.Review{}, review.ErrNotFound
	}
	if rv.BookID != bookID {
		return review.Review{}, review.ErrNotOwned
	}
	return rv, nil
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
