package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	"github.com/Raman-Agnihotri/Green-cart/internal/repository"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

const maxCommentLength = 500

// ReviewEvents publishes review lifecycle events. Implementations must not
// block the request path longer than a producer write.
type ReviewEvents interface {
	PublishReviewCreated(ctx context.Context, review *domain.Review, summary domain.RatingSummary) error
	PublishReviewUpdated(ctx context.Context, review *domain.Review, summary domain.RatingSummary) error
	PublishReviewDeleted(ctx context.Context, reviewID, productID, userID string, summary domain.RatingSummary) error
}

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	ProductID  string
	UserID     string
	AuthorName string
	Rating     int
	Comment    string
}

// ReviewListResult pairs a product's reviews with its current projection.
type ReviewListResult struct {
	Reviews       []domain.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	TotalReviews  int             `json:"total_reviews"`
}

// ReviewService implements review submission, editing, and listing. Every
// successful mutation synchronously recomputes the product's rating
// projection before returning.
type ReviewService struct {
	reviews    repository.ReviewRepository
	products   repository.ProductRepository
	aggregator *Aggregator
	events     ReviewEvents
	logger     *slog.Logger
}

// NewReviewService creates a review service. events may be nil when event
// publishing is disabled.
func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	aggregator *Aggregator,
	events ReviewEvents,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		products:   products,
		aggregator: aggregator,
		events:     events,
		logger:     logger,
	}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.Validation("rating must be between 1 and 5")
	}
	return nil
}

func validateComment(comment string) error {
	if strings.TrimSpace(comment) == "" {
		return apperrors.Validation("comment is required")
	}
	if len(comment) > maxCommentLength {
		return apperrors.Validation(fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
	}
	return nil
}

// Create submits a review. The storage layer's unique index settles
// concurrent duplicate submissions; this method never pre-checks with a read.
func (s *ReviewService) Create(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	if err := validateComment(input.Comment); err != nil {
		return nil, err
	}

	exists, err := s.products.Exists(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("check product exists: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("product", input.ProductID)
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:         uuid.New().String(),
		ProductID:  input.ProductID,
		UserID:     input.UserID,
		AuthorName: input.AuthorName,
		Rating:     input.Rating,
		Comment:    input.Comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	summary, err := s.aggregator.Recompute(ctx, review.ProductID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.String("user_id", review.UserID),
		slog.Int("rating", review.Rating),
	)

	s.publishCreated(ctx, review, summary)

	return review, nil
}

// Update edits the requestor's own review. A review owned by someone else is
// reported as not found, identically to a missing one.
func (s *ReviewService) Update(ctx context.Context, reviewID, requestorID string, rating int, comment string) (*domain.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	review, err := s.reviews.Update(ctx, reviewID, requestorID, rating, comment)
	if err != nil {
		return nil, err
	}

	summary, err := s.aggregator.Recompute(ctx, review.ProductID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)

	if s.events != nil {
		if err := s.events.PublishReviewUpdated(ctx, review, summary); err != nil {
			s.logger.WarnContext(ctx, "failed to publish review.updated",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return review, nil
}

// Delete removes the requestor's own review and recomputes the projection of
// the product it belonged to.
func (s *ReviewService) Delete(ctx context.Context, reviewID, requestorID string) error {
	productID, err := s.reviews.Delete(ctx, reviewID, requestorID)
	if err != nil {
		return err
	}

	summary, err := s.aggregator.Recompute(ctx, productID)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", reviewID),
		slog.String("product_id", productID),
	)

	if s.events != nil {
		if err := s.events.PublishReviewDeleted(ctx, reviewID, productID, requestorID, summary); err != nil {
			s.logger.WarnContext(ctx, "failed to publish review.deleted",
				slog.String("review_id", reviewID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// ListByProduct returns a product's reviews newest first together with the
// current projection from the product row.
func (s *ReviewService) ListByProduct(ctx context.Context, productID string) (*ReviewListResult, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return &ReviewListResult{
		Reviews:       reviews,
		AverageRating: product.AverageRating,
		TotalReviews:  product.TotalReviews,
	}, nil
}

func (s *ReviewService) publishCreated(ctx context.Context, review *domain.Review, summary domain.RatingSummary) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishReviewCreated(ctx, review, summary); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.created",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}
}
