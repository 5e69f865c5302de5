package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkrasnov/markethub/backend/internal/models"
)

func seedRecipientNotifications(t *testing.T, repo NotificationRepository, recipientID uint, count int) {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		require.NoError(t, repo.CreateNotification(&models.Notification{
			RecipientID: recipientID,
			SenderID:    99,
			Type:        models.NotificationArticleLike,
			Message:     "m",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestListByRecipientVisitsEachRowOnce(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	seedRecipientNotifications(t, repo, 1, 7)
	seedRecipientNotifications(t, repo, 2, 3)

	var visited []uint
	params := CursorParams{Limit: 3}
	for {
		notifications, nextCursor, err := repo.ListByRecipient(1, params)
		require.NoError(t, err)
		for _, n := range notifications {
			require.Equal(t, uint(1), n.RecipientID)
			visited = append(visited, n.ID)
		}
		if nextCursor == nil {
			break
		}
		params.Cursor = *nextCursor
	}

	require.Len(t, visited, 7)
	seen := make(map[uint]bool, len(visited))
	for _, id := range visited {
		require.False(t, seen[id], "row %d visited twice", id)
		seen[id] = true
	}
}

func TestListByRecipientTerminatesOnExactMultiple(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	seedRecipientNotifications(t, repo, 1, 4)

	params := CursorParams{Limit: 2}
	first, cursor, err := repo.ListByRecipient(1, params)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotNil(t, cursor)

	params.Cursor = *cursor
	second, cursor, err := repo.ListByRecipient(1, params)
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.NotNil(t, cursor)

	params.Cursor = *cursor
	third, cursor, err := repo.ListByRecipient(1, params)
	require.NoError(t, err)
	require.Empty(t, third)
	require.Nil(t, cursor)
}

func TestMarkAllAsReadAffectsOnlyUnread(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	seedRecipientNotifications(t, repo, 1, 3)

	affected, err := repo.MarkAllAsRead(1)
	require.NoError(t, err)
	require.Equal(t, int64(3), affected)

	affected, err = repo.MarkAllAsRead(1)
	require.NoError(t, err)
	require.Equal(t, int64(0), affected)

	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}
