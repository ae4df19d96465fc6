package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/testfixtures"
)

func TestNotificationListNewestFirstAndScoped(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()

	ada := h.CreateStudent(t, "Ada", "ada@example.com")
	bob := h.CreateStudent(t, "Bob", "bob@example.com")

	first := h.CreateNotification(t, ada.ID, "first", false)
	second := h.CreateNotification(t, ada.ID, "second", true)
	h.CreateNotification(t, bob.ID, "not for ada", false)

	list, err := h.NotificationRepository.ListByStudent(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, 1, models.CountUnread(list))
}

func TestNotificationActionRoundTrip(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()
	ada := h.CreateStudent(t, "Ada", "ada@example.com")

	n := &models.Notification{
		StudentID: ada.ID,
		Type:      models.NotificationTypeProgrammeRegistration,
		Title:     "Registered",
		Action:    &models.NotificationAction{Kind: models.ActionNavigate, Label: "View", Target: "/programs/1"},
	}
	require.NoError(t, h.NotificationRepository.Create(ctx, n))

	list, err := h.NotificationRepository.ListByStudent(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, n.Action, list[0].Action)
	assert.Equal(t, testfixtures.ReferenceTime(), list[0].CreatedAt)
}

func TestNotificationMarkReadScenario(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()
	repo := h.NotificationRepository

	ada := h.CreateStudent(t, "Ada", "ada@example.com")
	unread := h.CreateNotification(t, ada.ID, "one", false)
	h.CreateNotification(t, ada.ID, "two", true)

	n, err := repo.MarkRead(ctx, ada.ID, unread.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := repo.ListByStudent(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, item := range list {
		assert.True(t, item.Read)
	}

	n, err = repo.MarkRead(ctx, ada.ID, unread.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "second mark read is a no-op")

	n, err = repo.MarkRead(ctx, ada.ID, 9999)
	require.NoError(t, err)
	assert.Zero(t, n, "missing id is a no-op")
}

func TestNotificationMutationsIgnoreOtherStudents(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()
	repo := h.NotificationRepository

	ada := h.CreateStudent(t, "Ada", "ada@example.com")
	bob := h.CreateStudent(t, "Bob", "bob@example.com")
	bobs := h.CreateNotification(t, bob.ID, "bob's", false)

	n, err := repo.MarkRead(ctx, ada.ID, bobs.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.MarkAllRead(ctx, ada.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.Delete(ctx, ada.ID, bobs.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := repo.ListByStudent(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Read)
}

func TestNotificationMarkAllRead(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()
	repo := h.NotificationRepository

	ada := h.CreateStudent(t, "Ada", "ada@example.com")
	h.CreateNotification(t, ada.ID, "a", false)
	h.CreateNotification(t, ada.ID, "b", false)
	h.CreateNotification(t, ada.ID, "c", true)

	n, err := repo.MarkAllRead(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err := repo.ListByStudent(ctx, ada.ID)
	require.NoError(t, err)
	assert.Zero(t, models.CountUnread(list))

	n, err = repo.MarkAllRead(ctx, ada.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNotificationDeleteIsIdempotent(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()
	repo := h.NotificationRepository

	ada := h.CreateStudent(t, "Ada", "ada@example.com")
	gone := h.CreateNotification(t, ada.ID, "archive me", false)
	kept := h.CreateNotification(t, ada.ID, "keep me", false)

	n, err := repo.Delete(ctx, ada.ID, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(ctx, ada.ID, gone.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := repo.ListByStudent(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
}
