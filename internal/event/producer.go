package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	pkgkafka "github.com/Raman-Agnihotri/Green-cart/pkg/kafka"
)

// Kafka topics for review domain events.
const (
	TopicReviewCreated = "greencart.review.created"
	TopicReviewUpdated = "greencart.review.updated"
	TopicReviewDeleted = "greencart.review.deleted"
)

const (
	AggregateTypeReview = "review"
	SourceAPI           = "greencart-api"
)

// ReviewEventData is the payload for review lifecycle events. The summary is
// the projection state after the mutation so consumers never need to
// recompute it.
type ReviewEventData struct {
	ReviewID   string  `json:"review_id"`
	ProductID  string  `json:"product_id"`
	UserID     string  `json:"user_id"`
	AuthorName string  `json:"author_name,omitempty"`
	Rating     int     `json:"rating,omitempty"`
	AvgRating  float64 `json:"average_rating"`
	Reviews    int     `json:"total_reviews"`
}

// Publisher abstracts the Kafka producer for testing.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes review domain events.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates an event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

func (p *Producer) publish(ctx context.Context, topic string, review *domain.Review, summary domain.RatingSummary) error {
	data := ReviewEventData{
		ReviewID:   review.ID,
		ProductID:  review.ProductID,
		UserID:     review.UserID,
		AuthorName: review.AuthorName,
		Rating:     review.Rating,
		AvgRating:  summary.AverageRating,
		Reviews:    summary.TotalReviews,
	}

	event, err := pkgkafka.NewEvent(topic, review.ProductID, AggregateTypeReview, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published review event",
		slog.String("topic", topic),
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)
	return nil
}

// PublishReviewCreated announces a new review with the resulting summary.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review, summary domain.RatingSummary) error {
	return p.publish(ctx, TopicReviewCreated, review, summary)
}

// PublishReviewUpdated announces an edited review with the resulting summary.
func (p *Producer) PublishReviewUpdated(ctx context.Context, review *domain.Review, summary domain.RatingSummary) error {
	return p.publish(ctx, TopicReviewUpdated, review, summary)
}

// PublishReviewDeleted announces a removed review with the resulting summary.
func (p *Producer) PublishReviewDeleted(ctx context.Context, reviewID, productID, userID string, summary domain.RatingSummary) error {
	return p.publish(ctx, TopicReviewDeleted, &domain.Review{
		ID:        reviewID,
		ProductID: productID,
		UserID:    userID,
	}, summary)
}
