package event

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	pkgkafka "github.com/Raman-Agnihotri/Green-cart/pkg/kafka"
)

type capturingPublisher struct {
	topic string
	event *pkgkafka.Event
	err   error
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event *pkgkafka.Event) error {
	p.topic = topic
	p.event = event
	return p.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishReviewCreated(t *testing.T) {
	publisher := &capturingPublisher{}
	producer := NewProducer(publisher, discardLogger())

	review := &domain.Review{
		ID:         "rev-1",
		ProductID:  "prod-1",
		UserID:     "user-1",
		AuthorName: "Asha",
		Rating:     5,
	}
	summary := domain.RatingSummary{AverageRating: 5.0, TotalReviews: 1}

	err := producer.PublishReviewCreated(context.Background(), review, summary)

	require.NoError(t, err)
	assert.Equal(t, TopicReviewCreated, publisher.topic)
	assert.Equal(t, "prod-1", publisher.event.AggregateID)
	assert.Equal(t, AggregateTypeReview, publisher.event.AggregateType)
	assert.Equal(t, SourceAPI, publisher.event.Source)

	var data ReviewEventData
	require.NoError(t, publisher.event.UnmarshalData(&data))
	assert.Equal(t, "rev-1", data.ReviewID)
	assert.Equal(t, "user-1", data.UserID)
	assert.Equal(t, "Asha", data.AuthorName)
	assert.Equal(t, 5, data.Rating)
	assert.InDelta(t, 5.0, data.AvgRating, 1e-9)
	assert.Equal(t, 1, data.Reviews)
}

func TestPublishReviewDeleted(t *testing.T) {
	publisher := &capturingPublisher{}
	producer := NewProducer(publisher, discardLogger())

	summary := domain.RatingSummary{AverageRating: 2.0, TotalReviews: 1}
	err := producer.PublishReviewDeleted(context.Background(), "rev-1", "prod-1", "user-1", summary)

	require.NoError(t, err)
	assert.Equal(t, TopicReviewDeleted, publisher.topic)

	var data ReviewEventData
	require.NoError(t, publisher.event.UnmarshalData(&data))
	assert.Equal(t, "rev-1", data.ReviewID)
	assert.Equal(t, "prod-1", data.ProductID)
	assert.InDelta(t, 2.0, data.AvgRating, 1e-9)
}

func TestPublish_BrokerError(t *testing.T) {
	publisher := &capturingPublisher{err: fmt.Errorf("broker down")}
	producer := NewProducer(publisher, discardLogger())

	err := producer.PublishReviewUpdated(context.Background(), &domain.Review{ID: "rev-1", ProductID: "prod-1"}, domain.RatingSummary{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}
