package services

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"cadenza/config"
	"cadenza/types"

	"github.com/rs/zerolog"
)

// SearchService interface defines the search and ranking operations
type SearchService interface {
	Search(query string, limit int) ([]types.SearchCandidate, error)
	BestMatch(query string) (types.SearchCandidate, error)
	RandomByArtist(artist string) (types.SearchCandidate, error)
	Genres() ([]types.GenreInfo, error)
	SearchByGenre(genre string, limit int) ([]types.GenreMatch, error)
	RandomByGenre(genre string) (types.GenreMatch, error)
}

// searchService implements SearchService over the scanned library.
// Scoring combines exact containment checks with fuzzy similarity,
// weighted by where the comparison text came from: authored metadata
// outranks noisy filenames.
type searchService struct {
	library  LibraryService
	metadata MetadataService
	sim      Similarity
	cfg      config.SearchConfig
	logger   zerolog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(library LibraryService, metadata MetadataService, sim Similarity, cfg config.SearchConfig, logger zerolog.Logger) SearchService {
	return &searchService{
		library:  library,
		metadata: metadata,
		sim:      sim,
		cfg:      cfg,
		logger:   logger.With().Str("component", "search").Logger(),
	}
}

// Field weights: metadata is authored intentionally, filenames are noisy.
const (
	weightArtistTitle = 1.0
	weightMetadata    = 0.9
	weightFilename    = 0.7
)

// comparisonField is one searchable string for a file with its priority
type comparisonField struct {
	text      string
	weight    float64
	matchType types.MatchType
}

// Search scores every library file against the query and returns the top
// candidates, one per file, sorted by score descending with stable scan
// order for ties.
func (ss *searchService) Search(query string, limit int) ([]types.SearchCandidate, error) {
	files, err := ss.library.Scan()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []types.SearchCandidate{}, nil
	}

	candidates := ss.rank(query, files)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	ss.logger.Debug().Str("query", query).Int("matches", len(candidates)).Msg("Search complete")
	return candidates, nil
}

// BestMatch runs a limit-1 search and enforces the autoplay confidence
// threshold. Below the threshold it fails with the best score found, so
// the caller can report why autoplay was refused.
func (ss *searchService) BestMatch(query string) (types.SearchCandidate, error) {
	candidates, err := ss.Search(query, 1)
	if err != nil {
		return types.SearchCandidate{}, err
	}

	if len(candidates) == 0 {
		return types.SearchCandidate{}, fmt.Errorf("%w: no candidates for %q", types.ErrNoConfidentMatch, query)
	}

	best := candidates[0]
	if best.Score < ss.cfg.ConfidenceThreshold {
		return types.SearchCandidate{}, fmt.Errorf("%w: best score %.1f for %q (threshold %.0f)",
			types.ErrNoConfidentMatch, best.Score, query, ss.cfg.ConfidenceThreshold)
	}

	return best, nil
}

// RandomByArtist picks uniformly at random among every candidate whose
// artist field matches at or above the high-confidence band. Picking from
// the whole band, not just the single top result, keeps popular artists
// from always playing the same song.
func (ss *searchService) RandomByArtist(artist string) (types.SearchCandidate, error) {
	candidates, err := ss.Search(artist, 100)
	if err != nil {
		return types.SearchCandidate{}, err
	}

	artistLower := strings.ToLower(strings.TrimSpace(artist))
	pool := []types.SearchCandidate{}
	for _, c := range candidates {
		if !ss.isArtistMatch(artistLower, c) {
			continue
		}
		if c.Score >= ss.cfg.ArtistBand {
			pool = append(pool, c)
		}
	}

	if len(pool) == 0 {
		return types.SearchCandidate{}, fmt.Errorf("%w: no songs by %q", types.ErrNoMatch, artist)
	}

	return pool[rand.Intn(len(pool))], nil
}

// isArtistMatch reports whether a candidate matched on its artist field
func (ss *searchService) isArtistMatch(artistLower string, c types.SearchCandidate) bool {
	if c.Metadata.Artist != "" &&
		ss.sim.PartialRatio(artistLower, strings.ToLower(c.Metadata.Artist)) >= 80 {
		return true
	}

	switch c.MatchType {
	case types.MatchArtistTitle, types.MatchArtistTitleFuzzy,
		types.MatchMetadata, types.MatchMetadataFuzzy:
		return true
	}
	return false
}

// Genres returns every unique genre with counts, most common first.
// Files without a readable genre are grouped under "Unknown".
func (ss *searchService) Genres() ([]types.GenreInfo, error) {
	files, err := ss.library.Scan()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, file := range files {
		counts[ss.genreOf(file)]++
	}

	genres := make([]types.GenreInfo, 0, len(counts))
	for genre, count := range counts {
		genres = append(genres, types.GenreInfo{Genre: genre, Count: count})
	}
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Count != genres[j].Count {
			return genres[i].Count > genres[j].Count
		}
		return genres[i].Genre < genres[j].Genre
	})

	return genres, nil
}

// SearchByGenre returns files whose genre equals or contains the query
func (ss *searchService) SearchByGenre(genre string, limit int) ([]types.GenreMatch, error) {
	files, err := ss.library.Scan()
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(genre))
	matches := []types.GenreMatch{}
	for _, file := range files {
		fileGenre := ss.genreOf(file)
		genreLower := strings.ToLower(fileGenre)
		if genreLower == query || strings.Contains(genreLower, query) {
			matches = append(matches, types.GenreMatch{File: file, Genre: fileGenre})
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
	}

	return matches, nil
}

// RandomByGenre picks a random song from the given genre
func (ss *searchService) RandomByGenre(genre string) (types.GenreMatch, error) {
	matches, err := ss.SearchByGenre(genre, 100)
	if err != nil {
		return types.GenreMatch{}, err
	}

	if len(matches) == 0 {
		return types.GenreMatch{}, fmt.Errorf("%w: no songs in genre %q", types.ErrNoMatch, genre)
	}

	return matches[rand.Intn(len(matches))], nil
}

func (ss *searchService) genreOf(file types.AudioFile) string {
	md := ss.metadata.Extract(filepath.Join(ss.library.Root(), filepath.FromSlash(file.Path)))
	if md.Genre == "" {
		return "Unknown"
	}
	return md.Genre
}

// rank scores every file against the normalized query and keeps the best
// comparison per file, discarding anything below the acceptance floor.
func (ss *searchService) rank(query string, files []types.AudioFile) []types.SearchCandidate {
	normalizedQuery := normalizeMusicTerms(query)

	candidates := []types.SearchCandidate{}
	for _, file := range files {
		md := ss.metadata.Extract(filepath.Join(ss.library.Root(), filepath.FromSlash(file.Path)))

		var (
			bestScore float64 = -1
			bestType  types.MatchType
			bestText  string
		)

		// Fields are iterated in priority order, so at equal scores the
		// higher-priority field wins.
		for _, field := range comparisonFields(file, md) {
			score, matchType := ss.scoreField(query, normalizedQuery, field)
			if score > bestScore {
				bestScore = score
				bestType = matchType
				bestText = field.text
			}
		}

		if bestScore < ss.cfg.MinScore {
			continue
		}

		candidates = append(candidates, types.SearchCandidate{
			File:        file,
			Metadata:    md,
			MatchType:   bestType,
			Score:       bestScore,
			MatchedText: bestText,
			DisplayInfo: displayInfo(file, md),
		})
	}

	// Stable sort keeps original scan order for equal scores
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}

// scoreField scores one comparison string against the query. Exact
// equality and substring containment are checked before falling back to
// fuzzy similarity: containment is unambiguous and cheaper than edit
// distance.
func (ss *searchService) scoreField(query, normalizedQuery string, field comparisonField) (float64, types.MatchType) {
	text := strings.ToLower(field.text)

	if query == text {
		return 100 * field.weight, field.matchType
	}

	if strings.Contains(text, query) || strings.Contains(query, text) {
		return containmentScore(query, text) * field.weight, field.matchType
	}

	fuzzyScore := ss.sim.Ratio(normalizedQuery, normalizeMusicTerms(text))
	return float64(fuzzyScore) * field.weight, fuzzyVariant(field.matchType)
}

// containmentScore maps a substring relationship into the 90-100 band,
// closer to 100 the closer the two lengths are.
func containmentScore(a, b string) float64 {
	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if longer == 0 {
		return 90
	}
	return 90 + 10*float64(shorter)/float64(longer)
}

// comparisonFields builds the searchable strings for a file in priority
// order: artist+title, then individual metadata fields, then the cleaned
// filename stem.
func comparisonFields(file types.AudioFile, md types.TrackMetadata) []comparisonField {
	fields := []comparisonField{}

	if md.Artist != "" && md.Title != "" {
		fields = append(fields, comparisonField{
			text:      md.Artist + " - " + md.Title,
			weight:    weightArtistTitle,
			matchType: types.MatchArtistTitle,
		})
		fields = append(fields, comparisonField{
			text:      md.Title + " " + md.Artist,
			weight:    weightMetadata,
			matchType: types.MatchMetadata,
		})
	}
	if md.Title != "" {
		fields = append(fields, comparisonField{
			text:      md.Title,
			weight:    weightMetadata,
			matchType: types.MatchMetadata,
		})
	}
	if md.Artist != "" {
		fields = append(fields, comparisonField{
			text:      md.Artist,
			weight:    weightMetadata,
			matchType: types.MatchMetadata,
		})
	}

	stem := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	cleaned := cleanFilename(stem)
	fields = append(fields, comparisonField{
		text:      cleaned,
		weight:    weightFilename,
		matchType: types.MatchFilename,
	})
	if stem != cleaned {
		fields = append(fields, comparisonField{
			text:      stem,
			weight:    weightFilename,
			matchType: types.MatchFilename,
		})
	}

	return fields
}

// fuzzyVariant maps an exact match type to its fuzzy counterpart
func fuzzyVariant(m types.MatchType) types.MatchType {
	switch m {
	case types.MatchArtistTitle:
		return types.MatchArtistTitleFuzzy
	case types.MatchMetadata:
		return types.MatchMetadataFuzzy
	default:
		return types.MatchFilenameFuzzy
	}
}

// displayInfo prefers "Artist - Title" over the raw filename
func displayInfo(file types.AudioFile, md types.TrackMetadata) string {
	switch {
	case md.Artist != "" && md.Title != "":
		return md.Artist + " - " + md.Title
	case md.Title != "":
		return md.Title
	case md.Artist != "":
		return md.Artist
	}
	return file.Filename
}

// cleanFilename turns separator characters into spaces for matching
func cleanFilename(stem string) string {
	replacer := strings.NewReplacer("_", " ", "-", " ", ".", " ")
	return strings.Join(strings.Fields(replacer.Replace(stem)), " ")
}

var musicTermReplacements = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`\bfeat\b`), "featuring"},
	{regexp.MustCompile(`\bft\b`), "featuring"},
	{regexp.MustCompile(`\bw/`), "with "},
	{regexp.MustCompile(`\bvs\b`), "versus"},
}

// normalizeMusicTerms canonicalizes common music abbreviations so that
// "feat", "ft" and "featuring" all match each other
func normalizeMusicTerms(text string) string {
	text = strings.ToLower(text)
	for _, r := range musicTermReplacements {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return strings.Join(strings.Fields(text), " ")
}
