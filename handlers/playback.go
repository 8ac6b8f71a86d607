package handlers

import (
	"net/http"

	"cadenza/services"

	"github.com/gin-gonic/gin"
)

// PlaybackHandler handles playback control endpoints
type PlaybackHandler struct {
	player services.PlayerService
}

// NewPlaybackHandler creates a new playback handler
func NewPlaybackHandler(player services.PlayerService) *PlaybackHandler {
	return &PlaybackHandler{
		player: player,
	}
}

type playRequest struct {
	Path string `json:"path" binding:"required"`
}

// Play starts playback of a specific library file
func (h *PlaybackHandler) Play(c *gin.Context) {
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "path is required",
		})
		return
	}

	file, err := h.player.Play(req.Path)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "playing",
		"file":   file,
	})
}

// Stop halts playback
func (h *PlaybackHandler) Stop(c *gin.Context) {
	if err := h.player.Stop(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

// Pause pauses the current track
func (h *PlaybackHandler) Pause(c *gin.Context) {
	if err := h.player.Pause(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "paused"})
}

// Resume continues a paused track
func (h *PlaybackHandler) Resume(c *gin.Context) {
	if err := h.player.Resume(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "playing"})
}

// Next plays the following playlist entry
func (h *PlaybackHandler) Next(c *gin.Context) {
	file, err := h.player.Next()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "playing",
		"file":   file,
	})
}

// Previous plays the preceding playlist entry
func (h *PlaybackHandler) Previous(c *gin.Context) {
	file, err := h.player.Previous()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "playing",
		"file":   file,
	})
}

type seekRequest struct {
	Seconds *float64 `json:"seconds" binding:"required"`
}

// Seek jumps to an absolute position in the current track
func (h *PlaybackHandler) Seek(c *gin.Context) {
	var req seekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "seconds is required",
		})
		return
	}

	position, err := h.player.Seek(*req.Seconds)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "seeked",
		"positionSeconds": position,
	})
}

type skipRequest struct {
	Seconds float64 `json:"seconds"`
}

// SkipForward seeks ahead by the requested delta (default 30s)
func (h *PlaybackHandler) SkipForward(c *gin.Context) {
	req := skipRequest{Seconds: 30}
	_ = c.ShouldBindJSON(&req)
	if req.Seconds <= 0 {
		req.Seconds = 30
	}

	position, err := h.player.SkipForward(req.Seconds)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "skipped_forward",
		"seconds":         req.Seconds,
		"positionSeconds": position,
	})
}

// SkipBackward seeks back by the requested delta (default 10s)
func (h *PlaybackHandler) SkipBackward(c *gin.Context) {
	req := skipRequest{Seconds: 10}
	_ = c.ShouldBindJSON(&req)
	if req.Seconds <= 0 {
		req.Seconds = 10
	}

	position, err := h.player.SkipBackward(req.Seconds)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "skipped_backward",
		"seconds":         req.Seconds,
		"positionSeconds": position,
	})
}

type volumeRequest struct {
	Level *int `json:"level" binding:"required"`
}

// SetVolume sets the 0-10 playback volume, clamping out-of-range levels
func (h *PlaybackHandler) SetVolume(c *gin.Context) {
	var req volumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "level is required",
		})
		return
	}

	volume := h.player.SetVolume(*req.Level)
	c.JSON(http.StatusOK, gin.H{
		"status": "volume_changed",
		"volume": volume,
	})
}

// Status reports the current playback state
func (h *PlaybackHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.player.Status())
}

// Diagnose reports the media engine's capabilities
func (h *PlaybackHandler) Diagnose(c *gin.Context) {
	c.JSON(http.StatusOK, h.player.Diagnose())
}
