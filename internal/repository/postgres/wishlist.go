package postgres

import (
	"context"
	"fmt"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	"github.com/Raman-Agnihotri/Green-cart/pkg/database"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

// WishlistRepository implements repository.WishlistRepository using PostgreSQL.
type WishlistRepository struct {
	pool database.DBTX
}

// NewWishlistRepository creates a PostgreSQL-backed wishlist repository.
func NewWishlistRepository(pool database.DBTX) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

// Add saves a product to the user's wishlist. Adding the same product twice
// violates the primary key and is reported as a DUPLICATE error.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID string) error {
	query := `INSERT INTO wishlists (user_id, product_id) VALUES ($1, $2)`

	ctx, end := database.TraceQuery(ctx, "AddWishlistItem", query)
	_, err := r.pool.Exec(ctx, query, userID, productID)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Duplicate("product already in wishlist")
		}
		return fmt.Errorf("add to wishlist: %w", err)
	}

	return nil
}

// Remove deletes a product from the user's wishlist.
func (r *WishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`

	ctx, end := database.TraceQuery(ctx, "RemoveWishlistItem", query)
	ct, err := r.pool.Exec(ctx, query, userID, productID)
	end(err)
	if err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("wishlist item", productID)
	}

	return nil
}

// List returns the user's wishlist newest first, with each product joined in.
func (r *WishlistRepository) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	query := `
		SELECT w.user_id, w.product_id, w.created_at,
		       p.id, p.name, p.description, p.category, p.price, p.offer_price, p.image_urls,
		       p.in_stock, p.average_rating, p.total_reviews, p.created_at, p.updated_at
		FROM wishlists w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`

	ctx, end := database.TraceQuery(ctx, "ListWishlist", query)
	rows, err := r.pool.Query(ctx, query, userID)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	items := []domain.WishlistItem{}
	for rows.Next() {
		var (
			item domain.WishlistItem
			p    domain.Product
		)
		if err := rows.Scan(
			&item.UserID,
			&item.ProductID,
			&item.CreatedAt,
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Category,
			&p.Price,
			&p.OfferPrice,
			&p.ImageURLs,
			&p.InStock,
			&p.AverageRating,
			&p.TotalReviews,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wishlist row: %w", err)
		}
		item.Product = &p
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist rows: %w", err)
	}

	return items, nil
}

// Contains reports whether the product is in the user's wishlist.
func (r *WishlistRepository) Contains(ctx context.Context, userID, productID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM wishlists WHERE user_id = $1 AND product_id = $2)`

	ctx, end := database.TraceQuery(ctx, "WishlistContains", query)
	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, productID).Scan(&exists)
	end(err)
	if err != nil {
		return false, fmt.Errorf("check wishlist membership: %w", err)
	}

	return exists, nil
}
