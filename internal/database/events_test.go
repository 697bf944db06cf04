package database

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	userID int64
	data   []byte
}

func (c *captureNotifier) PublishEvent(userID int64, eventData []byte) {
	c.userID = userID
	c.data = eventData
}

func TestLogEventNotifiesListeners(t *testing.T) {
	user := createTestUser(t, "zdarzenia_user")

	notifier := &captureNotifier{}
	store := NewStore(testStore.GetPool(), notifier)

	err := store.LogEvent(context.Background(), user.ID, "profile_updated", map[string]string{"username": "zdarzenia_user"})
	require.NoError(t, err)

	require.Equal(t, user.ID, notifier.userID)

	var msg map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(notifier.data, &msg))
	require.JSONEq(t, `"profile_updated"`, string(msg["event_type"]))
}

func TestGetEventsSince(t *testing.T) {
	user := createTestUser(t, "zdarzenia_lista")

	require.NoError(t, testStore.LogEvent(context.Background(), user.ID, "user_registered", nil))
	require.NoError(t, testStore.LogEvent(context.Background(), user.ID, "user_logged_in", nil))
	require.NoError(t, testStore.LogEvent(context.Background(), user.ID, "user_logged_out", nil))

	events, err := testStore.GetEventsSince(context.Background(), user.ID, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "user_registered", events[0].EventType)

	// Incremental fetch picks up only what happened after the cursor.
	later, err := testStore.GetEventsSince(context.Background(), user.ID, events[1].ID)
	require.NoError(t, err)
	require.Len(t, later, 1)
	require.Equal(t, "user_logged_out", later[0].EventType)

	// Another user's journal stays private.
	other := createTestUser(t, "zdarzenia_obcy")
	none, err := testStore.GetEventsSince(context.Background(), other.ID, 0)
	require.NoError(t, err)
	require.Empty(t, none)
}
