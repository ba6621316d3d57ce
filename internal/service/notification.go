package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	"github.com/Raman-Agnihotri/Green-cart/internal/repository"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

// notificationListCap bounds the inbox query; older entries are simply not
// shown.
const notificationListCap = 50

// WebhookSender forwards a notification to an external endpoint.
type WebhookSender interface {
	Send(ctx context.Context, n *domain.Notification) error
}

// NotificationListResult is the user's inbox with its unread badge count.
type NotificationListResult struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

// NotificationService implements the in-app notification inbox. Notifications
// are created internally (event consumer, admin flows), never through a
// public POST.
type NotificationService struct {
	notifications repository.NotificationRepository
	webhook       WebhookSender
	logger        *slog.Logger
}

// NewNotificationService creates a notification service. webhook may be nil
// when forwarding is disabled.
func NewNotificationService(notifications repository.NotificationRepository, webhook WebhookSender, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		webhook:       webhook,
		logger:        logger,
	}
}

// Create stores a notification and, for urgent types, forwards it to the
// configured webhook. Webhook failures are logged and never surface; the
// in-app copy is the system of record.
func (s *NotificationService) Create(ctx context.Context, userID string, typ domain.NotificationType, title, message string) (*domain.Notification, error) {
	if !typ.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown notification type %q", typ))
	}
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}

	n := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.logger.InfoContext(ctx, "notification created",
		slog.String("notification_id", n.ID),
		slog.String("user_id", n.UserID),
		slog.String("type", string(n.Type)),
	)

	if s.webhook != nil && isUrgent(n.Type) {
		if err := s.webhook.Send(ctx, n); err != nil {
			s.logger.WarnContext(ctx, "webhook forward failed",
				slog.String("notification_id", n.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return n, nil
}

func isUrgent(typ domain.NotificationType) bool {
	return typ == domain.NotificationOrder || typ == domain.NotificationSystem
}

// List returns the user's newest notifications (capped) and unread count.
func (s *NotificationService) List(ctx context.Context, userID string) (*NotificationListResult, error) {
	notifications, err := s.notifications.ListByUser(ctx, userID, notificationListCap)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}

	return &NotificationListResult{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkRead marks one of the user's notifications read.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	return s.notifications.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks the user's whole inbox read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(ctx context.Context, notificationID, userID string) error {
	return s.notifications.Delete(ctx, notificationID, userID)
}
