package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

func newNotificationTestFixture(t *testing.T) (*NotificationRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewNotificationRepository(mock), mock
}

func TestNotificationRepository_Create(t *testing.T) {
	repo, mock := newNotificationTestFixture(t)
	defer mock.Close()

	n := &domain.Notification{
		ID:        "notif-1",
		UserID:    "user-1",
		Type:      domain.NotificationReview,
		Title:     "Review published",
		Message:   "Thanks for reviewing Organic Spinach.",
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(n.ID, n.UserID, n.Type, n.Title, n.Message, n.Read, n.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), n))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_ListByUser_CapsAtLimit(t *testing.T) {
	repo, mock := newNotificationTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "user_id", "type", "title", "message", "read", "created_at"}).
		AddRow("notif-2", "user-1", domain.NotificationOrder, "Order shipped", "On the way.", false, now).
		AddRow("notif-1", "user-1", domain.NotificationSystem, "Welcome", "Hello!", true, now.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, user_id, type, title, message, read, created_at").
		WithArgs("user-1", 50).
		WillReturnRows(rows)

	notifications, err := repo.ListByUser(context.Background(), "user-1", 50)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "notif-2", notifications[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_CountUnread(t *testing.T) {
	repo, mock := newNotificationTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead_OwnerScoped(t *testing.T) {
	repo, mock := newNotificationTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE notifications SET read").
		WithArgs("notif-1", "intruder").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkRead(context.Background(), "notif-1", "intruder")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_Delete_Success(t *testing.T) {
	repo, mock := newNotificationTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM notifications").
		WithArgs("notif-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), "notif-1", "user-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
