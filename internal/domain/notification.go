package domain

import "time"

// NotificationType classifies a notification for client rendering.
type NotificationType string

const (
	NotificationOrder     NotificationType = "order"
	NotificationPromotion NotificationType = "promotion"
	NotificationSystem    NotificationType = "system"
	NotificationReview    NotificationType = "review"
)

// Valid reports whether t is one of the known types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationOrder, NotificationPromotion, NotificationSystem, NotificationReview:
		return true
	}
	return false
}

// Notification is an in-app message for one user. Notifications are created
// internally, never through a public endpoint.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
