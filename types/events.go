package types

import "time"

// EventType identifies a playback state change pushed to WebSocket clients.
type EventType string

const (
	EventNowPlaying EventType = "now_playing"
	EventPaused     EventType = "paused"
	EventResumed    EventType = "resumed"
	EventStopped    EventType = "stopped"
	EventVolume     EventType = "volume"
	EventSeek       EventType = "seek"
)

// PlaybackEvent is a WebSocket message describing a playback state change.
type PlaybackEvent struct {
	Type            EventType `json:"type"`
	File            string    `json:"file,omitempty"`
	Volume          int       `json:"volume,omitempty"`
	PositionSeconds float64   `json:"positionSeconds,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}
