package types

// PlaybackState represents the current state of the playback controller
type PlaybackState string

const (
	StateStopped PlaybackState = "stopped"
	StatePlaying PlaybackState = "playing"
	StatePaused  PlaybackState = "paused"
)

// PlaybackStatus is the full status record returned by the status tool.
// Position and Duration come from the engine; when the engine cannot be
// queried the last-known values are returned with Stale set.
type PlaybackStatus struct {
	State           PlaybackState `json:"state"`
	CurrentFile     string        `json:"currentFile,omitempty"`
	Volume          int           `json:"volume"` // 0-10
	PlaylistSize    int           `json:"playlistSize"`
	CurrentIndex    int           `json:"currentIndex"` // -1 when nothing has played
	PositionSeconds float64       `json:"positionSeconds"`
	DurationSeconds float64       `json:"durationSeconds,omitempty"`
	Stale           bool          `json:"stale,omitempty"`
}

// EngineReport is the diagnostic capability report for the media engine.
type EngineReport struct {
	Available        bool     `json:"available"`
	Binary           string   `json:"binary"`
	Version          string   `json:"version,omitempty"`
	SupportedFormats []string `json:"supportedFormats"`
	Errors           []string `json:"errors,omitempty"`
}
