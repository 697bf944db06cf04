package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHubPublishEvent(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, 7)
	hub.Register <- client

	// Registration goes through a channel; wait for it to land.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[7]) == 1
	}, time.Second, 10*time.Millisecond)

	hub.PublishEvent(7, []byte(`{"event_type":"user_logged_in"}`))

	select {
	case msg := <-client.send:
		require.JSONEq(t, `{"event_type":"user_logged_in"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("expected the published event to reach the client")
	}

	// Events for other users never leak over.
	hub.PublishEvent(8, []byte(`{"event_type":"user_registered"}`))
	select {
	case msg := <-client.send:
		t.Fatalf("unexpected message for another user: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDisconnectUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, 9)
	hub.Register <- client

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[9]) == 1
	}, time.Second, 10*time.Millisecond)

	hub.DisconnectUser(9)

	_, open := <-client.send
	require.False(t, open, "send channel should be closed after disconnect")

	// Publishing afterwards is a no-op.
	hub.PublishEvent(9, []byte(`{}`))
}
