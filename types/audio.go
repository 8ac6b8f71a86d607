package types

// AudioFile represents a discovered audio file (MP3, FLAC, etc.)
type AudioFile struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`   // relative to the music root, slash-separated
	Folder   string `json:"folder"` // parent directory relative to the root, "root" at top level
	Size     int64  `json:"size"`
	Format   string `json:"format"` // "mp3", "flac", etc.
}

// TrackMetadata holds best-effort embedded tag data for an audio file.
// Fields may be empty when tags are missing or unreadable; empty fields
// never block search or playback.
type TrackMetadata struct {
	Title       string  `json:"title,omitempty"`
	Artist      string  `json:"artist,omitempty"`
	Album       string  `json:"album,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Year        int     `json:"year,omitempty"`
	TrackNumber int     `json:"trackNumber,omitempty"`
	Duration    float64 `json:"duration,omitempty"` // seconds, 0 when unknown
}

// MatchType labels which field and strategy produced a search score.
type MatchType string

const (
	MatchArtistTitle      MatchType = "artist_title"
	MatchMetadata         MatchType = "metadata"
	MatchFilename         MatchType = "filename"
	MatchArtistTitleFuzzy MatchType = "artist_title_fuzzy"
	MatchMetadataFuzzy    MatchType = "metadata_fuzzy"
	MatchFilenameFuzzy    MatchType = "filename_fuzzy"
)

// Fuzzy reports whether the match came from similarity scoring rather
// than exact containment.
func (m MatchType) Fuzzy() bool {
	switch m {
	case MatchArtistTitleFuzzy, MatchMetadataFuzzy, MatchFilenameFuzzy:
		return true
	}
	return false
}

// SearchCandidate is one ranked result for a search query. Candidates
// are built per call and discarded with the response.
type SearchCandidate struct {
	File        AudioFile     `json:"file"`
	Metadata    TrackMetadata `json:"metadata"`
	MatchType   MatchType     `json:"matchType"`
	Score       float64       `json:"score"`       // 0-100
	MatchedText string        `json:"matchedText"` // the comparison string that won
	DisplayInfo string        `json:"displayInfo"` // "Artist - Title" or filename
}

// FolderInfo aggregates audio file counts per directory.
type FolderInfo struct {
	Folder      string   `json:"folder"`
	FileCount   int      `json:"fileCount"`
	SampleFiles []string `json:"sampleFiles"`
}

// GenreInfo is one genre with its file count.
type GenreInfo struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// GenreMatch is one file matched by a genre search.
type GenreMatch struct {
	File  AudioFile `json:"file"`
	Genre string    `json:"genre"`
}
