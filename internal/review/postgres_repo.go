package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID int64) ([]Review, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.bookExists(timeoutCtx, r.db, bookID); err != nil {
		return nil, err
	}

	const query = `
		SELECT id, review, book_id
		FROM reviews
		WHERE book_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(timeoutCtx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("list reviews of book %d: %w", bookID, err)
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.Review, &rv.BookID); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, rv *Review) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.bookExists(timeoutCtx, r.db, rv.BookID); err != nil {
		return err
	}

	const query = `
		INSERT INTO reviews (review, book_id)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := r.db.QueryRow(timeoutCtx, query, rv.Review, rv.BookID).Scan(&rv.ID); err != nil {
		return fmt.Errorf("create review for book %d: %w", rv.BookID, err)
	}
	return nil
}

// Update runs the ownership check and the write in one transaction so a
// concurrent book delete cannot slip between them.
func (r *PostgresRepo) Update(ctx context.Context, bookID, reviewID int64, text string) (Review, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Review{}, fmt.Errorf("begin update review %d: %w", reviewID, err)
	}
	defer tx.Rollback(timeoutCtx)

	if err := r.ownedReview(timeoutCtx, tx, bookID, reviewID); err != nil {
		return Review{}, err
	}

	var rv Review
	const query = `
		UPDATE reviews
		SET review = $2
		WHERE id = $1
		RETURNING id, review, book_id
	`
	if err := tx.QueryRow(timeoutCtx, query, reviewID, text).Scan(&rv.ID, &rv.Review, &rv.BookID); err != nil {
		return Review{}, fmt.Errorf("update review %d: %w", reviewID, err)
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return Review{}, fmt.Errorf("commit update review %d: %w", reviewID, err)
	}
	return rv, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, bookID, reviewID int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return fmt.Errorf("begin delete review %d: %w", reviewID, err)
	}
	defer tx.Rollback(timeoutCtx)

	if err := r.ownedReview(timeoutCtx, tx, bookID, reviewID); err != nil {
		return err
	}

	if _, err := tx.Exec(timeoutCtx, `DELETE FROM reviews WHERE id = $1`, reviewID); err != nil {
		return fmt.Errorf("delete review %d: %w", reviewID, err)
	}
	return tx.Commit(timeoutCtx)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PostgresRepo) bookExists(ctx context.Context, q querier, bookID int64) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists); err != nil {
		return fmt.Errorf("check book %d: %w", bookID, err)
	}
	if !exists {
		return ErrBookNotFound
	}
	return nil
}

// ownedReview verifies the book exists, the review exists, and the review
// belongs to the book. The row is locked so the caller's write sees the
// state it just checked.
func (r *PostgresRepo) ownedReview(ctx context.Context, tx pgx.Tx, bookID, reviewID int64) error {
	if err := r.bookExists(ctx, tx, bookID); err != nil {
		return err
	}
	var owner int64
	err := tx.QueryRow(ctx, `SELECT book_id FROM reviews WHERE id = $1 FOR UPDATE`, reviewID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("check review %d: %w", reviewID, err)
	}
	if owner != bookID {
		return ErrNotOwned
	}
	return nil
}
