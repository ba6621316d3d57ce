package domain

import "time"

// Product is a catalog item. AverageRating and TotalReviews form the rating
// projection and are written only by the rating aggregator.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	OfferPrice    float64   `json:"offer_price"`
	ImageURLs     []string  `json:"image_urls"`
	InStock       bool      `json:"in_stock"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int       `json:"total_reviews"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
