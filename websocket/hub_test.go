package websocket

import (
	"testing"
	"time"

	"cadenza/types"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	client := NewClient(hub, nil)
	hub.RegisterClient(client)

	hub.Broadcast(types.PlaybackEvent{Type: types.EventNowPlaying, File: "a/song.mp3", Volume: 3})

	select {
	case event := <-client.send:
		assert.Equal(t, types.EventNowPlaying, event.Type)
		assert.Equal(t, "a/song.mp3", event.File)
		assert.Equal(t, 3, event.Volume)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	first := NewClient(hub, nil)
	second := NewClient(hub, nil)
	hub.RegisterClient(first)
	hub.RegisterClient(second)

	hub.Broadcast(types.PlaybackEvent{Type: types.EventVolume, Volume: 7})

	for _, client := range []*Client{first, second} {
		select {
		case event := <-client.send:
			assert.Equal(t, types.EventVolume, event.Type)
		case <-time.After(time.Second):
			t.Fatal("event never delivered")
		}
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	client := NewClient(hub, nil)
	hub.RegisterClient(client)
	hub.UnregisterClient(client)

	// The send channel is closed on unregister
	select {
	case _, ok := <-client.send:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel never closed")
	}
}

func TestHubPreservesTimestamp(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	client := NewClient(hub, nil)
	hub.RegisterClient(client)

	stamp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	hub.Broadcast(types.PlaybackEvent{Type: types.EventStopped, Timestamp: stamp})

	select {
	case event := <-client.send:
		assert.Equal(t, stamp, event.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}
}
