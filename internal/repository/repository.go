// Package repository defines the persistence interfaces the services depend
// on. The postgres subpackage provides the production implementations.
package repository

import (
	"context"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
)

// ProductFilter is the criteria for listing catalog products.
type ProductFilter struct {
	Search    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string // name | price | rating | created_at
	SortOrder string // asc | desc
}

// ProductRepository persists catalog products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Categories(ctx context.Context) ([]string, error)
	SetStock(ctx context.Context, id string, inStock bool) error

	// WriteRatingSummary stores the aggregate projection on the product row.
	// Only the rating aggregator calls this.
	WriteRatingSummary(ctx context.Context, productID string, summary domain.RatingSummary) error

	Exists(ctx context.Context, id string) (bool, error)
}

// ReviewRepository persists product reviews. The (user_id, product_id) unique
// index is the uniqueness source of truth; Create surfaces its violation as a
// DUPLICATE error.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error

	// Update modifies the requestor's own review. A review that exists but
	// belongs to someone else is reported as not found.
	Update(ctx context.Context, reviewID, requestorID string, rating int, comment string) (*domain.Review, error)

	// Delete removes the requestor's own review and returns the product id
	// the review belonged to, for projection recomputation.
	Delete(ctx context.Context, reviewID, requestorID string) (string, error)

	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)

	// Summarize computes the current mean (unrounded) and count directly
	// from the review rows.
	Summarize(ctx context.Context, productID string) (avg float64, count int, err error)
}

// WishlistRepository persists per-user saved products.
type WishlistRepository interface {
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Contains(ctx context.Context, userID, productID string) (bool, error)
}

// NotificationRepository persists in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, notificationID, userID string) error
}
