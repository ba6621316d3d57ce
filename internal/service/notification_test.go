package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

func TestCreateNotification_Success(t *testing.T) {
	repo := new(mockNotificationRepository)
	webhook := new(mockWebhookSender)
	svc := NewNotificationService(repo, webhook, newTestLogger())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

	n, err := svc.Create(ctx, "user-1", domain.NotificationReview, "Review published", "Thanks!")

	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, domain.NotificationReview, n.Type)
	assert.False(t, n.Read)
	webhook.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestCreateNotification_InvalidType(t *testing.T) {
	repo := new(mockNotificationRepository)
	svc := NewNotificationService(repo, nil, newTestLogger())

	n, err := svc.Create(context.Background(), "user-1", domain.NotificationType("gossip"), "Hi", "")

	assert.Nil(t, n)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateNotification_TitleRequired(t *testing.T) {
	repo := new(mockNotificationRepository)
	svc := NewNotificationService(repo, nil, newTestLogger())

	n, err := svc.Create(context.Background(), "user-1", domain.NotificationOrder, "", "body")

	assert.Nil(t, n)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateNotification_UrgentForwardedToWebhook(t *testing.T) {
	repo := new(mockNotificationRepository)
	webhook := new(mockWebhookSender)
	svc := NewNotificationService(repo, webhook, newTestLogger())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
	webhook.On("Send", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

	_, err := svc.Create(ctx, "user-1", domain.NotificationOrder, "Order shipped", "On its way.")

	require.NoError(t, err)
	webhook.AssertExpectations(t)
}

// A dead webhook receiver must not fail notification creation; the in-app
// copy is the system of record.
func TestCreateNotification_WebhookFailureSwallowed(t *testing.T) {
	repo := new(mockNotificationRepository)
	webhook := new(mockWebhookSender)
	svc := NewNotificationService(repo, webhook, newTestLogger())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
	webhook.On("Send", ctx, mock.Anything).Return(fmt.Errorf("circuit open"))

	n, err := svc.Create(ctx, "user-1", domain.NotificationSystem, "Maintenance", "Tonight at 2am.")

	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestListNotifications(t *testing.T) {
	repo := new(mockNotificationRepository)
	svc := NewNotificationService(repo, nil, newTestLogger())
	ctx := context.Background()

	notifications := []domain.Notification{{ID: "n-1"}, {ID: "n-2"}}
	repo.On("ListByUser", ctx, "user-1", notificationListCap).Return(notifications, nil)
	repo.On("CountUnread", ctx, "user-1").Return(1, nil)

	result, err := svc.List(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, notifications, result.Notifications)
	assert.Equal(t, 1, result.UnreadCount)
}

func TestMarkRead_NotOwned(t *testing.T) {
	repo := new(mockNotificationRepository)
	svc := NewNotificationService(repo, nil, newTestLogger())
	ctx := context.Background()

	repo.On("MarkRead", ctx, "n-1", "intruder").Return(apperrors.NotFound("notification", "n-1"))

	assert.ErrorIs(t, svc.MarkRead(ctx, "n-1", "intruder"), apperrors.ErrNotFound)
}
