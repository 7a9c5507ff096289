package repository_test

import (
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNotificationRepoTest(t *testing.T) (repository.NotificationRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewNotificationRepository(db), mock
}

func TestCreateNotification(t *testing.T) {
	ctx := t.Context()
	now := time.Now()
	insert := regexp.QuoteMeta(`INSERT INTO notifications (id, type, recipient, subject, content, status, error_message, metadata, created_at, updated_at)`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock := setupNotificationRepoTest(t)
		metadata := json.RawMessage(`{"order_id":"abc"}`)
		n := &models.Notification{
			ID:        uuid.New(),
			Type:      models.NotificationTypeEmail,
			Recipient: "ada@example.com",
			Subject:   "Order Confirmation",
			Content:   "Thanks",
			Status:    models.StatusPending,
			Metadata:  metadata,
		}

		mock.ExpectQuery(insert).
			WithArgs(n.ID, n.Type, n.Recipient, n.Subject, n.Content, n.Status, "", []byte(metadata)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		// Act
		err := repo.CreateNotification(ctx, n)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, now, n.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		repo, mock := setupNotificationRepoTest(t)
		dbErr := errors.New("insert failed")

		mock.ExpectQuery(insert).WillReturnError(dbErr)

		// Act
		err := repo.CreateNotification(ctx, &models.Notification{ID: uuid.New()})

		// Assert
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to create notification")
	})
}

func TestUpdateNotificationStatus(t *testing.T) {
	ctx := t.Context()
	id := uuid.New()
	update := regexp.QuoteMeta(`UPDATE notifications SET status = $1, error_message = $2, updated_at = NOW()`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock := setupNotificationRepoTest(t)

		mock.ExpectExec(update).WithArgs(models.StatusFailed, "breaker open", id).WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := repo.UpdateNotificationStatus(ctx, id, models.StatusFailed, "breaker open")

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		repo, mock := setupNotificationRepoTest(t)

		mock.ExpectExec(update).WithArgs(models.StatusSent, "", id).WillReturnResult(sqlmock.NewResult(0, 0))

		// Act
		err := repo.UpdateNotificationStatus(ctx, id, models.StatusSent, "")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "notification not found")
	})
}

func TestListNotifications(t *testing.T) {
	ctx := t.Context()
	now := time.Now()
	columns := []string{"id", "type", "recipient", "subject", "content", "status", "error_message", "metadata", "created_at", "updated_at"}

	t.Run("Success - Failed Only", func(t *testing.T) {
		// Arrange
		repo, mock := setupNotificationRepoTest(t)
		status := models.StatusFailed
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM notifications WHERE status = $1`)).
			WithArgs(status).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
		mock.ExpectQuery(`FROM notifications WHERE status = \$1\s+ORDER BY created_at DESC\s+LIMIT \$2 OFFSET \$3`).
			WithArgs(status, 2, 2).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(id, models.NotificationTypeEmail, "ada@example.com", "Order Confirmation", "Thanks", status, "breaker open", []byte(`{"order_id":"abc"}`), now, now))

		// Act
		notifications, total, err := repo.ListNotifications(ctx, &status, 2, 2)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, notifications, 1)
		assert.Equal(t, id, notifications[0].ID)
		assert.Equal(t, "breaker open", notifications[0].ErrorMessage)
		assert.JSONEq(t, `{"order_id":"abc"}`, string(notifications[0].Metadata))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Unfiltered Without Metadata", func(t *testing.T) {
		// Arrange
		repo, mock := setupNotificationRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM notifications`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
		mock.ExpectQuery(`FROM notifications\s+ORDER BY created_at DESC\s+LIMIT \$1 OFFSET \$2`).
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(uuid.New(), models.NotificationTypeEmail, "ada@example.com", "", "Thanks", models.StatusSent, "", nil, now, now))

		// Act
		notifications, _, err := repo.ListNotifications(ctx, nil, 1, 10)

		// Assert
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Nil(t, notifications[0].Metadata)
	})

	t.Run("Failure - Count Error", func(t *testing.T) {
		// Arrange
		repo, mock := setupNotificationRepoTest(t)
		dbErr := errors.New("connection refused")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM notifications`)).WillReturnError(dbErr)

		// Act
		notifications, _, err := repo.ListNotifications(ctx, nil, 1, 10)

		// Assert
		assert.Nil(t, notifications)
		assert.ErrorIs(t, err, dbErr)
	})
}
