package postgres

import (
	"context"
	"fmt"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	"github.com/Raman-Agnihotri/Green-cart/pkg/database"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

// NotificationRepository implements repository.NotificationRepository using PostgreSQL.
type NotificationRepository struct {
	pool database.DBTX
}

// NewNotificationRepository creates a PostgreSQL-backed notification repository.
func NewNotificationRepository(pool database.DBTX) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	ctx, end := database.TraceQuery(ctx, "CreateNotification", query)
	_, err := r.pool.Exec(ctx, query, n.ID, n.UserID, n.Type, n.Title, n.Message, n.Read, n.CreatedAt)
	end(err)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// ListByUser returns the user's newest notifications, capped at limit.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	ctx, end := database.TraceQuery(ctx, "ListNotifications", query)
	rows, err := r.pool.Query(ctx, query, userID, limit)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}

	return notifications, nil
}

// CountUnread returns the user's unread notification count.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`

	ctx, end := database.TraceQuery(ctx, "CountUnreadNotifications", query)
	var count int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)
	end(err)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead marks one of the user's notifications read. A notification owned
// by someone else is reported as not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`

	ctx, end := database.TraceQuery(ctx, "MarkNotificationRead", query)
	ct, err := r.pool.Exec(ctx, query, notificationID, userID)
	end(err)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("notification", notificationID)
	}

	return nil
}

// MarkAllRead marks every unread notification of the user read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`

	ctx, end := database.TraceQuery(ctx, "MarkAllNotificationsRead", query)
	_, err := r.pool.Exec(ctx, query, userID)
	end(err)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	return nil
}

// Delete removes one of the user's notifications.
func (r *NotificationRepository) Delete(ctx context.Context, notificationID, userID string) error {
	query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`

	ctx, end := database.TraceQuery(ctx, "DeleteNotification", query)
	ct, err := r.pool.Exec(ctx, query, notificationID, userID)
	end(err)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("notification", notificationID)
	}

	return nil
}
