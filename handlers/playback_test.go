package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cadenza/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPlayer returns canned results so handler mapping can be tested
// without a media engine
type stubPlayer struct {
	file      types.AudioFile
	position  float64
	volume    int
	status    types.PlaybackStatus
	report    types.EngineReport
	err       error
	lastDelta float64
}

func (s *stubPlayer) Play(path string) (types.AudioFile, error) { return s.file, s.err }
func (s *stubPlayer) Stop() error                               { return s.err }
func (s *stubPlayer) Pause() error                              { return s.err }
func (s *stubPlayer) Resume() error                             { return s.err }
func (s *stubPlayer) Next() (types.AudioFile, error)            { return s.file, s.err }
func (s *stubPlayer) Previous() (types.AudioFile, error)        { return s.file, s.err }

func (s *stubPlayer) Seek(seconds float64) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return seconds, nil
}

func (s *stubPlayer) SkipForward(delta float64) (float64, error) {
	s.lastDelta = delta
	return s.position + delta, s.err
}

func (s *stubPlayer) SkipBackward(delta float64) (float64, error) {
	s.lastDelta = delta
	return s.position - delta, s.err
}

func (s *stubPlayer) SetVolume(level int) int {
	s.volume = level
	return level
}

func (s *stubPlayer) Status() types.PlaybackStatus { return s.status }
func (s *stubPlayer) Diagnose() types.EngineReport { return s.report }

func playbackRouter(player *stubPlayer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPlaybackHandler(player)

	r := gin.New()
	r.POST("/api/playback/play", h.Play)
	r.POST("/api/playback/stop", h.Stop)
	r.POST("/api/playback/pause", h.Pause)
	r.POST("/api/playback/resume", h.Resume)
	r.POST("/api/playback/seek", h.Seek)
	r.POST("/api/playback/skip-forward", h.SkipForward)
	r.POST("/api/playback/skip-backward", h.SkipBackward)
	r.POST("/api/playback/volume", h.SetVolume)
	r.GET("/api/playback/status", h.Status)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPlayEndpoint(t *testing.T) {
	player := &stubPlayer{file: types.AudioFile{Filename: "song.mp3", Path: "a/song.mp3"}}
	r := playbackRouter(player)

	w := doJSON(t, r, http.MethodPost, "/api/playback/play", gin.H{"path": "a/song.mp3"})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "playing", body["status"])
}

func TestPlayEndpointRequiresPath(t *testing.T) {
	r := playbackRouter(&stubPlayer{})

	w := doJSON(t, r, http.MethodPost, "/api/playback/play", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedKind   string
	}{
		{"file not found", types.ErrFileNotFound, http.StatusNotFound, "file_not_found"},
		{"traversal", types.ErrPathTraversalRejected, http.StatusForbidden, "path_traversal_rejected"},
		{"not playing", types.ErrNotPlaying, http.StatusConflict, "not_playing"},
		{"end of playlist", types.ErrEndOfPlaylist, http.StatusConflict, "end_of_playlist"},
		{"engine gone", types.ErrEngineUnavailable, http.StatusServiceUnavailable, "engine_unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := playbackRouter(&stubPlayer{err: tt.err})

			w := doJSON(t, r, http.MethodPost, "/api/playback/play", gin.H{"path": "x.mp3"})
			assert.Equal(t, tt.expectedStatus, w.Code)

			body := decodeBody(t, w)
			assert.Equal(t, tt.expectedKind, body["error"])
			assert.NotEmpty(t, body["details"])
		})
	}
}

func TestSeekEndpoint(t *testing.T) {
	r := playbackRouter(&stubPlayer{})

	w := doJSON(t, r, http.MethodPost, "/api/playback/seek", gin.H{"seconds": 42.5})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 42.5, body["positionSeconds"])

	// Zero is a valid target, not a missing field
	w = doJSON(t, r, http.MethodPost, "/api/playback/seek", gin.H{"seconds": 0})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/playback/seek", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSkipDefaults(t *testing.T) {
	player := &stubPlayer{position: 100}
	r := playbackRouter(player)

	// No body at all falls back to the default delta
	w := doJSON(t, r, http.MethodPost, "/api/playback/skip-forward", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30.0, player.lastDelta)

	w = doJSON(t, r, http.MethodPost, "/api/playback/skip-backward", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10.0, player.lastDelta)

	w = doJSON(t, r, http.MethodPost, "/api/playback/skip-forward", gin.H{"seconds": 90})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 90.0, player.lastDelta)
}

func TestVolumeEndpoint(t *testing.T) {
	player := &stubPlayer{}
	r := playbackRouter(player)

	w := doJSON(t, r, http.MethodPost, "/api/playback/volume", gin.H{"level": 7})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 7.0, body["volume"])

	// Zero is a valid level
	w = doJSON(t, r, http.MethodPost, "/api/playback/volume", gin.H{"level": 0})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/playback/volume", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	player := &stubPlayer{status: types.PlaybackStatus{
		State:        types.StatePlaying,
		CurrentFile:  "a/song.mp3",
		Volume:       5,
		PlaylistSize: 3,
	}}
	r := playbackRouter(player)

	w := doJSON(t, r, http.MethodGet, "/api/playback/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "playing", body["state"])
	assert.Equal(t, "a/song.mp3", body["currentFile"])
	assert.Equal(t, 5.0, body["volume"])
}
