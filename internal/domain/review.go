package domain

import "time"

// Review is one user's review of one product. AuthorName is a snapshot of the
// reviewer's display name taken from the token at creation time; later profile
// renames do not rewrite history.
type Review struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	UserID     string    `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RatingSummary is the aggregate projection for a product: the mean rating
// rounded to one decimal and the review count. Both are 0 when the product
// has no reviews.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}
