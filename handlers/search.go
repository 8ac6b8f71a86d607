package handlers

import (
	"net/http"
	"strconv"

	"cadenza/services"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles search and autoplay endpoints
type SearchHandler struct {
	search services.SearchService
	player services.PlayerService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search services.SearchService, player services.PlayerService) *SearchHandler {
	return &SearchHandler{
		search: search,
		player: player,
	}
}

// Search returns ranked candidates for a free-text query
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query parameter 'q' is required",
		})
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	matches, err := h.search.Search(query, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"matches": matches,
		"count":   len(matches),
	})
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchAndPlay plays the best match for a query, refusing to autoplay
// anything below the confidence threshold
func (h *SearchHandler) SearchAndPlay(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query is required",
		})
		return
	}

	best, err := h.search.BestMatch(req.Query)
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := h.player.Play(best.File.Path)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "playing",
		"query":      req.Query,
		"file":       file,
		"matchScore": best.Score,
		"matchType":  best.MatchType,
	})
}

type artistRequest struct {
	Artist string `json:"artist" binding:"required"`
}

// RandomByArtist plays a random high-confidence song by the artist
func (h *SearchHandler) RandomByArtist(c *gin.Context) {
	var req artistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "artist is required",
		})
		return
	}

	pick, err := h.search.RandomByArtist(req.Artist)
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := h.player.Play(pick.File.Path)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "playing",
		"artist":     req.Artist,
		"file":       file,
		"matchScore": pick.Score,
		"matchType":  pick.MatchType,
	})
}

// Genres lists every genre in the collection with counts
func (h *SearchHandler) Genres(c *gin.Context) {
	genres, err := h.search.Genres()
	if err != nil {
		respondError(c, err)
		return
	}

	totalFiles := 0
	for _, genre := range genres {
		totalFiles += genre.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"genres":       genres,
		"uniqueGenres": len(genres),
		"totalFiles":   totalFiles,
	})
}

// SearchByGenre lists songs whose genre matches the query
func (h *SearchHandler) SearchByGenre(c *gin.Context) {
	genre := c.Query("genre")
	if genre == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query parameter 'genre' is required",
		})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	matches, err := h.search.SearchByGenre(genre, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"genre":   genre,
		"matches": matches,
		"count":   len(matches),
	})
}

type genreRequest struct {
	Genre string `json:"genre" binding:"required"`
}

// RandomByGenre plays a random song from the genre
func (h *SearchHandler) RandomByGenre(c *gin.Context) {
	var req genreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "genre is required",
		})
		return
	}

	pick, err := h.search.RandomByGenre(req.Genre)
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := h.player.Play(pick.File.Path)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "playing",
		"genre":  pick.Genre,
		"file":   file,
	})
}
