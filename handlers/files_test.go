package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"cadenza/services"
	"cadenza/types"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopMetadata struct {
	invalidated int
}

func (m *noopMetadata) Extract(path string) types.TrackMetadata { return types.TrackMetadata{} }
func (m *noopMetadata) Invalidate()                             { m.invalidated++ }

func libraryRouter(t *testing.T, metadata services.MetadataService, files ...string) *gin.Engine {
	t.Helper()

	dir := t.TempDir()
	for _, file := range files {
		path := filepath.Join(dir, filepath.FromSlash(file))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("audio"), 0644))
	}

	gin.SetMode(gin.TestMode)
	library := services.NewLibraryService(dir, zerolog.Nop())
	h := NewLibraryHandler(library, metadata)

	r := gin.New()
	r.GET("/api/files", h.ListFiles)
	r.GET("/api/folders", h.ListFolders)
	return r
}

func TestListFilesEndpoint(t *testing.T) {
	r := libraryRouter(t, &noopMetadata{},
		"Queen/A Night at the Opera/01 - Bohemian Rhapsody.mp3",
		"bonus.ogg",
		"notes.txt",
	)

	w := doJSON(t, r, http.MethodGet, "/api/files", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, 2.0, body["count"])
	assert.NotEmpty(t, body["baseDirectory"])
}

func TestListFilesRescan(t *testing.T) {
	metadata := &noopMetadata{}
	r := libraryRouter(t, metadata, "a/song.mp3")

	w := doJSON(t, r, http.MethodGet, "/api/files", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, metadata.invalidated)

	w = doJSON(t, r, http.MethodGet, "/api/files?rescan=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, metadata.invalidated)
}

func TestListFoldersEndpoint(t *testing.T) {
	r := libraryRouter(t, &noopMetadata{},
		"Queen/A Night at the Opera/01 - Bohemian Rhapsody.mp3",
		"Queen/A Night at the Opera/02 - Lazing on a Sunday Afternoon.mp3",
		"bonus.ogg",
	)

	w := doJSON(t, r, http.MethodGet, "/api/folders", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, 2.0, body["totalFolders"])
	assert.Equal(t, 3.0, body["totalFiles"])
}

func TestListFilesMissingDirectory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	library := services.NewLibraryService("/nonexistent/music", zerolog.Nop())
	h := NewLibraryHandler(library, &noopMetadata{})

	r := gin.New()
	r.GET("/api/files", h.ListFiles)

	w := doJSON(t, r, http.MethodGet, "/api/files", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "directory_not_found", body["error"])
}
