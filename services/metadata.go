package services

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"cadenza/types"

	"github.com/dhowden/tag"
	"github.com/rs/zerolog"
)

// MetadataService interface defines methods for tag extraction
type MetadataService interface {
	Extract(filePath string) types.TrackMetadata
	Invalidate()
}

// metadataService implements the MetadataService interface with a
// process-lifetime cache keyed by absolute path. Extraction is strictly
// best-effort: parse failures degrade to a filename-derived record and
// are never surfaced to callers.
type metadataService struct {
	mu     sync.Mutex
	root   string
	cache  map[string]types.TrackMetadata
	logger zerolog.Logger
}

// NewMetadataService creates a new metadata service. Fallback metadata is
// derived from paths relative to root, so directories above the library
// never leak into artist or album fields.
func NewMetadataService(root string, logger zerolog.Logger) MetadataService {
	return &metadataService{
		root:   root,
		cache:  make(map[string]types.TrackMetadata),
		logger: logger.With().Str("component", "metadata").Logger(),
	}
}

// Extract reads embedded tags from an audio file, falling back to
// path-derived metadata for missing or unreadable fields.
func (ms *metadataService) Extract(filePath string) types.TrackMetadata {
	ms.mu.Lock()
	if cached, ok := ms.cache[filePath]; ok {
		ms.mu.Unlock()
		return cached
	}
	ms.mu.Unlock()

	metadata := ms.extract(filePath)

	ms.mu.Lock()
	ms.cache[filePath] = metadata
	ms.mu.Unlock()

	return metadata
}

// Invalidate drops every cached record. Called on explicit rescans.
func (ms *metadataService) Invalidate() {
	ms.mu.Lock()
	ms.cache = make(map[string]types.TrackMetadata)
	ms.mu.Unlock()
}

func (ms *metadataService) extract(filePath string) types.TrackMetadata {
	relPath := ms.relative(filePath)

	file, err := os.Open(filePath)
	if err != nil {
		ms.logger.Debug().Err(err).Str("path", filePath).Msg("Could not open audio file")
		return extractMetadataFromPath(relPath)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		ms.logger.Debug().Err(err).Str("path", filePath).Msg("Could not parse audio tags")
		return extractMetadataFromPath(relPath)
	}

	metadata := types.TrackMetadata{
		Title:  strings.TrimSpace(meta.Title()),
		Artist: strings.TrimSpace(meta.Artist()),
		Album:  strings.TrimSpace(meta.Album()),
		Genre:  cleanGenre(meta.Genre()),
		Year:   meta.Year(),
	}
	track, _ := meta.Track()
	metadata.TrackNumber = track

	// Fill missing fields from the file path
	if metadata.Title == "" || metadata.Artist == "" || metadata.Album == "" {
		fallback := extractMetadataFromPath(relPath)
		if metadata.Title == "" {
			metadata.Title = fallback.Title
		}
		if metadata.Artist == "" {
			metadata.Artist = fallback.Artist
		}
		if metadata.Album == "" {
			metadata.Album = fallback.Album
		}
		if metadata.TrackNumber == 0 {
			metadata.TrackNumber = fallback.TrackNumber
		}
	}

	return metadata
}

// relative strips the library root so fallback fields come from the
// library's own layout only
func (ms *metadataService) relative(filePath string) string {
	if ms.root == "" {
		return filePath
	}
	rel, err := filepath.Rel(ms.root, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(filePath)
	}
	return rel
}

var trackPrefixRe = regexp.MustCompile(`^(\d+)[\.\-\s]+(.+)`)

// extractMetadataFromPath derives metadata from the file path as fallback,
// assuming an Artist/Album/NN - Title layout.
func extractMetadataFromPath(filePath string) types.TrackMetadata {
	metadata := types.TrackMetadata{}

	parts := strings.Split(filepath.ToSlash(filePath), "/")
	filename := filepath.Base(filePath)

	// Artist from grandparent directory, album from parent
	if len(parts) >= 3 {
		metadata.Artist = parts[len(parts)-3]
	}
	if len(parts) >= 2 {
		metadata.Album = parts[len(parts)-2]
	}

	title := strings.TrimSuffix(filename, filepath.Ext(filename))

	// Strip track number prefixes like "01 - " or "3. "
	if matches := trackPrefixRe.FindStringSubmatch(title); len(matches) > 2 {
		title = matches[2]
		if trackNum, err := strconv.Atoi(matches[1]); err == nil {
			metadata.TrackNumber = trackNum
		}
	}

	metadata.Title = title

	return metadata
}

var id3v1GenreRe = regexp.MustCompile(`^\(\d+\)`)

// cleanGenre normalizes a raw genre tag: ID3v1 numeric prefixes like
// "(13)Pop" are stripped and the result is title-cased.
func cleanGenre(genre string) string {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return ""
	}

	genre = strings.TrimSpace(id3v1GenreRe.ReplaceAllString(genre, ""))
	if strings.HasPrefix(genre, "(") && strings.HasSuffix(genre, ")") {
		genre = genre[1 : len(genre)-1]
	}
	if genre == "" {
		return ""
	}

	return titleCase(genre)
}

// titleCase capitalizes the first letter of each space-separated word
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
