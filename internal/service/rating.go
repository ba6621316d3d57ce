package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	"github.com/Raman-Agnihotri/Green-cart/internal/repository"
)

// Aggregator maintains the denormalized rating projection on product rows.
// Every recompute reads the full review set and writes a fresh snapshot, so
// the projection is idempotent and converges under concurrent mutations
// without locks (last writer wins).
type Aggregator struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewAggregator creates a rating aggregator.
func NewAggregator(reviews repository.ReviewRepository, products repository.ProductRepository, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		reviews:  reviews,
		products: products,
		logger:   logger,
	}
}

// roundRating rounds half away from zero to one decimal, e.g. 4.25 -> 4.3.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// Recompute rebuilds the summary for a product from its reviews and writes it
// onto the product row. A product with no reviews gets 0 / 0.
//
// A failed projection write is logged and swallowed: the review mutation that
// triggered the recompute has already committed and is never rolled back. The
// common case is the product being deleted concurrently, which makes the
// stale projection moot anyway.
func (a *Aggregator) Recompute(ctx context.Context, productID string) (domain.RatingSummary, error) {
	avg, count, err := a.reviews.Summarize(ctx, productID)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("summarize ratings for product %s: %w", productID, err)
	}

	summary := domain.RatingSummary{
		AverageRating: roundRating(avg),
		TotalReviews:  count,
	}

	if err := a.products.WriteRatingSummary(ctx, productID, summary); err != nil {
		a.logger.WarnContext(ctx, "rating projection write failed",
			slog.String("product_id", productID),
			slog.Float64("average_rating", summary.AverageRating),
			slog.Int("total_reviews", summary.TotalReviews),
			slog.String("error", err.Error()),
		)
	}

	return summary, nil
}
