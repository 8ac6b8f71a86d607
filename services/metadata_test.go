package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractMetadataFromPath tests path-based metadata extraction
func TestExtractMetadataFromPath(t *testing.T) {
	tests := []struct {
		name                string
		filePath            string
		expectedTitle       string
		expectedArtist      string
		expectedAlbum       string
		expectedTrackNumber int
	}{
		{
			name:                "standard structure with track number",
			filePath:            "Artist Name/Album Name/01 - Song Title.flac",
			expectedTitle:       "Song Title",
			expectedArtist:      "Artist Name",
			expectedAlbum:       "Album Name",
			expectedTrackNumber: 1,
		},
		{
			name:                "double digit track number",
			filePath:            "The Beatles/Abbey Road/12 - Come Together.flac",
			expectedTitle:       "Come Together",
			expectedArtist:      "The Beatles",
			expectedAlbum:       "Abbey Road",
			expectedTrackNumber: 12,
		},
		{
			name:                "track number with dot",
			filePath:            "Artist/Album/3. Track Name.mp3",
			expectedTitle:       "Track Name",
			expectedArtist:      "Artist",
			expectedAlbum:       "Album",
			expectedTrackNumber: 3,
		},
		{
			name:                "no track number",
			filePath:            "Artist/Album/Song Title.flac",
			expectedTitle:       "Song Title",
			expectedArtist:      "Artist",
			expectedAlbum:       "Album",
			expectedTrackNumber: 0,
		},
		{
			name:                "single directory level",
			filePath:            "Artist/Song.mp3",
			expectedTitle:       "Song",
			expectedArtist:      "",
			expectedAlbum:       "Artist",
			expectedTrackNumber: 0,
		},
		{
			name:                "flat file",
			filePath:            "Song.flac",
			expectedTitle:       "Song",
			expectedArtist:      "",
			expectedAlbum:       "",
			expectedTrackNumber: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := extractMetadataFromPath(tt.filePath)
			assert.Equal(t, tt.expectedTitle, metadata.Title)
			assert.Equal(t, tt.expectedArtist, metadata.Artist)
			assert.Equal(t, tt.expectedAlbum, metadata.Album)
			assert.Equal(t, tt.expectedTrackNumber, metadata.TrackNumber)
		})
	}
}

// TestExtractFallback verifies that unparseable files degrade to
// path-derived metadata instead of failing
func TestExtractFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Queen", "A Night at the Opera", "01 - Bohemian Rhapsody.mp3")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0644))

	ms := NewMetadataService(dir, zerolog.Nop())
	metadata := ms.Extract(path)

	assert.Equal(t, "Bohemian Rhapsody", metadata.Title)
	assert.Equal(t, "Queen", metadata.Artist)
	assert.Equal(t, "A Night at the Opera", metadata.Album)
	assert.Equal(t, 1, metadata.TrackNumber)
}

// TestExtractFallbackTopLevel ensures directories above the music root
// never leak into artist or album fields
func TestExtractFallbackTopLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bonus.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0644))

	ms := NewMetadataService(dir, zerolog.Nop())
	metadata := ms.Extract(path)

	assert.Equal(t, "bonus", metadata.Title)
	assert.Empty(t, metadata.Artist)
	assert.Empty(t, metadata.Album)
}

func TestExtractMissingFile(t *testing.T) {
	dir := t.TempDir()
	ms := NewMetadataService(dir, zerolog.Nop())

	metadata := ms.Extract(filepath.Join(dir, "Artist", "Album", "02 - Gone.mp3"))
	assert.Equal(t, "Gone", metadata.Title)
	assert.Equal(t, "Artist", metadata.Artist)
	assert.Equal(t, "Album", metadata.Album)
	assert.Equal(t, 2, metadata.TrackNumber)
}

// TestExtractCaching verifies the cache serves repeat lookups and that
// Invalidate forces a re-read
func TestExtractCaching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Artist", "Album", "01 - First.mp3")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	ms := NewMetadataService(dir, zerolog.Nop())
	first := ms.Extract(path)
	assert.Equal(t, "First", first.Title)

	// Rename on disk; the cached record still wins
	renamed := filepath.Join(dir, "Artist", "Album", "01 - Second.mp3")
	require.NoError(t, os.Rename(path, renamed))
	cached := ms.Extract(path)
	assert.Equal(t, "First", cached.Title)

	ms.Invalidate()
	fresh := ms.Extract(renamed)
	assert.Equal(t, "Second", fresh.Title)
}

// TestCleanGenre tests genre tag normalization
func TestCleanGenre(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain genre", "Rock", "Rock"},
		{"lowercase", "synthwave", "Synthwave"},
		{"uppercase", "METAL", "Metal"},
		{"id3v1 numeric prefix", "(13)Pop", "Pop"},
		{"parenthesized", "(Alternative Rock)", "Alternative Rock"},
		{"multi word", "progressive house", "Progressive House"},
		{"multibyte initial", "électro", "Électro"},
		{"multibyte uppercase", "ÉLECTRO SWING", "Électro Swing"},
		{"whitespace", "  Jazz  ", "Jazz"},
		{"empty", "", ""},
		{"only numeric code", "(13)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanGenre(tt.raw))
		})
	}
}
