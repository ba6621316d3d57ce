package domain

import "time"

// WishlistItem links a user to a saved product.
type WishlistItem struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	// Product is populated on list reads so clients render items without a
	// second round trip.
	Product *Product `json:"product,omitempty"`
}
