package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	"github.com/Raman-Agnihotri/Green-cart/pkg/database"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// isUniqueViolation reports a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// Create inserts a review. The INSERT itself is the atomic one-review-per-
// (user, product) check; a unique violation becomes a DUPLICATE error.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, user_id, author_name, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	ctx, end := database.TraceQuery(ctx, "CreateReview", query)
	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.ProductID,
		review.UserID,
		review.AuthorName,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Duplicate("you have already reviewed this product")
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// Update rewrites the rating and comment of the requestor's own review.
// Ownership and existence are checked in the same statement so a foreign
// review is indistinguishable from a missing one.
func (r *ReviewRepository) Update(ctx context.Context, reviewID, requestorID string, rating int, comment string) (*domain.Review, error) {
	query := `
		UPDATE reviews
		SET rating = $3, comment = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, product_id, user_id, author_name, rating, comment, created_at, updated_at`

	ctx, end := database.TraceQuery(ctx, "UpdateReview", query)
	var rv domain.Review
	err := r.pool.QueryRow(ctx, query, reviewID, requestorID, rating, comment).Scan(
		&rv.ID,
		&rv.ProductID,
		&rv.UserID,
		&rv.AuthorName,
		&rv.Rating,
		&rv.Comment,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", reviewID)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	return &rv, nil
}

// Delete removes the requestor's own review and returns the product id it
// belonged to. Same combined ownership/existence contract as Update.
func (r *ReviewRepository) Delete(ctx context.Context, reviewID, requestorID string) (string, error) {
	query := `
		DELETE FROM reviews
		WHERE id = $1 AND user_id = $2
		RETURNING product_id`

	ctx, end := database.TraceQuery(ctx, "DeleteReview", query)
	var productID string
	err := r.pool.QueryRow(ctx, query, reviewID, requestorID).Scan(&productID)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("review", reviewID)
		}
		return "", fmt.Errorf("delete review: %w", err)
	}

	return productID, nil
}

// ListByProduct returns all reviews for a product, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	query := `
		SELECT id, product_id, user_id, author_name, rating, comment, created_at, updated_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC`

	ctx, end := database.TraceQuery(ctx, "ListReviewsByProduct", query)
	rows, err := r.pool.Query(ctx, query, productID)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.AuthorName,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

// Summarize reads the unrounded mean rating and count for a product straight
// from the review rows. Both are 0 when the product has no reviews.
func (r *ReviewRepository) Summarize(ctx context.Context, productID string) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE product_id = $1`

	ctx, end := database.TraceQuery(ctx, "SummarizeReviews", query)
	var (
		avg   float64
		count int
	)
	err := r.pool.QueryRow(ctx, query, productID).Scan(&avg, &count)
	end(err)
	if err != nil {
		return 0, 0, fmt.Errorf("summarize reviews: %w", err)
	}

	return avg, count, nil
}
