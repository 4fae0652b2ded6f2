package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitEnvelope(t *testing.T) {
	hub := NewHub()

	hub.Emit("postCreated", map[string]interface{}{"content": "hello"})

	select {
	case raw := <-hub.broadcast:
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		assert.Equal(t, "postCreated", env.Event)

		payload, ok := env.Payload.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "hello", payload["content"])
	case <-time.After(time.Second):
		t.Fatal("no message queued on broadcast channel")
	}
}

func TestEmitDropsWhenQueueFull(t *testing.T) {
	hub := NewHub()

	// Nothing drains the channel, so fill it past capacity. Emit must
	// not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.Emit("postViewed", map[string]interface{}{"n": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full broadcast queue")
	}
	assert.Equal(t, cap(hub.broadcast), len(hub.broadcast))
}

func TestEmitUnmarshalablePayload(t *testing.T) {
	hub := NewHub()

	// Channels cannot be marshaled; the event is dropped, not queued.
	hub.Emit("postUpdated", map[string]interface{}{"bad": make(chan int)})
	assert.Equal(t, 0, len(hub.broadcast))
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{send: make(chan []byte, 1), done: make(chan struct{}), hub: hub}
	hub.register <- client

	hub.Emit("postDeleted", "64f1a2b3c4d5e6f7a8b9c0d1")

	select {
	case raw := <-client.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		assert.Equal(t, "postDeleted", env.Event)
		assert.Equal(t, "64f1a2b3c4d5e6f7a8b9c0d1", env.Payload)
	case <-time.After(time.Second):
		t.Fatal("registered client never received the broadcast")
	}

	hub.unregister <- client
}

// A slow client gets dropped by the hub while its read pump may still be
// queueing pong frames. The drop must never close the send channel out
// from under that write.
func TestSlowClientDropKeepsSendWritable(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{send: make(chan []byte, 1), done: make(chan struct{}), hub: hub}
	hub.register <- client

	// First broadcast fills the one-slot buffer, second forces the drop.
	hub.Emit("postViewed", map[string]interface{}{"n": 1})
	hub.Emit("postViewed", map[string]interface{}{"n": 2})

	select {
	case <-client.done:
	case <-time.After(time.Second):
		t.Fatal("hub never dropped the saturated client")
	}

	// The write the read pump performs for a pong after the drop.
	assert.NotPanics(t, func() {
		client.trySend([]byte(`{"event":"pong"}`))
	})

	// Unregistering a client that was already dropped must not close
	// done a second time.
	assert.NotPanics(t, func() {
		hub.unregister <- client
		hub.Emit("postViewed", map[string]interface{}{"n": 3})
		time.Sleep(10 * time.Millisecond)
	})
}

func TestTrySendDiscardsWhenFull(t *testing.T) {
	client := &Client{send: make(chan []byte, 1), done: make(chan struct{})}

	client.trySend([]byte("a"))
	done := make(chan struct{})
	go func() {
		client.trySend([]byte("b"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("trySend blocked on a full buffer")
	}
	assert.Equal(t, 1, len(client.send))
}
