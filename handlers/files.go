package handlers

import (
	"net/http"

	"cadenza/services"

	"github.com/gin-gonic/gin"
)

// LibraryHandler handles library browsing endpoints
type LibraryHandler struct {
	library  services.LibraryService
	metadata services.MetadataService
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library services.LibraryService, metadata services.MetadataService) *LibraryHandler {
	return &LibraryHandler{
		library:  library,
		metadata: metadata,
	}
}

// ListFiles returns every audio file in the music directory. Passing
// rescan=true also drops the metadata cache, so retagged files are
// re-read on their next search.
func (h *LibraryHandler) ListFiles(c *gin.Context) {
	if c.Query("rescan") == "true" {
		h.metadata.Invalidate()
	}

	files, err := h.library.Scan()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files":         files,
		"count":         len(files),
		"baseDirectory": h.library.Root(),
	})
}

// ListFolders returns per-directory audio file counts
func (h *LibraryHandler) ListFolders(c *gin.Context) {
	folders, err := h.library.Folders()
	if err != nil {
		respondError(c, err)
		return
	}

	totalFiles := 0
	for _, folder := range folders {
		totalFiles += folder.FileCount
	}

	c.JSON(http.StatusOK, gin.H{
		"folders":       folders,
		"totalFolders":  len(folders),
		"totalFiles":    totalFiles,
		"baseDirectory": h.library.Root(),
	})
}
