package handlers

import (
	"errors"
	"net/http"

	"cadenza/types"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to an HTTP status and a structured
// body. The remote caller must render something for every failure, so
// nothing propagates past here.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrFileNotFound),
		errors.Is(err, types.ErrDirectoryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrPathTraversalRejected):
		status = http.StatusForbidden
	case errors.Is(err, types.ErrNotPlaying),
		errors.Is(err, types.ErrNothingToResume),
		errors.Is(err, types.ErrEndOfPlaylist),
		errors.Is(err, types.ErrStartOfPlaylist):
		status = http.StatusConflict
	case errors.Is(err, types.ErrNoConfidentMatch),
		errors.Is(err, types.ErrNoMatch),
		errors.Is(err, types.ErrSeekUnsupported):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrEngineUnavailable):
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"error":   types.ErrorKind(err),
		"details": err.Error(),
	})
}
