package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	pkgkafka "github.com/Raman-Agnihotri/Green-cart/pkg/kafka"
)

// NotificationCreator is the slice of the notification service the consumer
// needs.
type NotificationCreator interface {
	Create(ctx context.Context, userID string, typ domain.NotificationType, title, message string) (*domain.Notification, error)
}

// ReviewCreatedHandler turns review.created events into a confirmation
// notification for the review's author. Wrap it with an idempotent handler so
// Kafka redeliveries don't duplicate the notification.
func ReviewCreatedHandler(notifications NotificationCreator, logger *slog.Logger) pkgkafka.Handler {
	return func(ctx context.Context, event *pkgkafka.Event) error {
		var data ReviewEventData
		if err := event.UnmarshalData(&data); err != nil {
			return fmt.Errorf("decode review.created payload: %w", err)
		}
		if data.UserID == "" {
			logger.WarnContext(ctx, "review.created event without user id, skipping",
				slog.String("event_id", event.EventID),
			)
			return nil
		}

		_, err := notifications.Create(ctx, data.UserID, domain.NotificationReview,
			"Review published",
			"Thanks for your review! It is now visible to other shoppers.",
		)
		if err != nil {
			return fmt.Errorf("create review notification: %w", err)
		}

		logger.InfoContext(ctx, "review confirmation notification created",
			slog.String("user_id", data.UserID),
			slog.String("review_id", data.ReviewID),
		)
		return nil
	}
}
