package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cadenza/config"
	"cadenza/handlers"
	"cadenza/middleware"
	"cadenza/services"
	"cadenza/websocket"
)

var (
	serveLogLevel string
	servePort     int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cadenza server",
	Long: `Start the HTTP server that exposes the music collection.

The server scans the configured music directory on demand, so files
added while it is running are picked up by the next request.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (overrides configuration)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	logger := setupLogger(serveLogLevel)

	logger.Info().
		Str("version", version).
		Str("music_dir", cfg.MusicDir).
		Int("port", cfg.Port).
		Msg("Starting cadenza server")

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	hub := websocket.NewHub(logger)
	go hub.Run()

	library := services.NewLibraryService(cfg.MusicDir, logger)
	metadata := services.NewMetadataService(cfg.MusicDir, logger)
	similarity := services.NewSimilarity()
	search := services.NewSearchService(library, metadata, similarity, cfg.Search, logger)
	engine := services.NewMPVEngine(cfg.Engine, logger)
	player := services.NewPlayerService(engine, library, hub, cfg, logger)

	// Initialize handlers
	libraryHandler := handlers.NewLibraryHandler(library, metadata)
	playbackHandler := handlers.NewPlaybackHandler(player)
	searchHandler := handlers.NewSearchHandler(search, player)
	healthHandler := handlers.NewHealthHandler(cfg.MusicDir)
	eventsHandler := handlers.NewEventsHandler(hub, logger)

	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.Logging(logger))

	setupRoutes(r, libraryHandler, playbackHandler, searchHandler, healthHandler, eventsHandler)

	addr := ":" + strconv.Itoa(cfg.Port)
	if err := r.Run(addr); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, libraryHandler *handlers.LibraryHandler, playbackHandler *handlers.PlaybackHandler, searchHandler *handlers.SearchHandler, healthHandler *handlers.HealthHandler, eventsHandler *handlers.EventsHandler) {
	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		// Collection discovery endpoints
		apiGroup.GET("/files", libraryHandler.ListFiles)
		apiGroup.GET("/folders", libraryHandler.ListFolders)

		// Search endpoints
		apiGroup.GET("/search", searchHandler.Search)
		apiGroup.POST("/search/play", searchHandler.SearchAndPlay)
		apiGroup.POST("/search/artist/random", searchHandler.RandomByArtist)

		// Genre endpoints
		apiGroup.GET("/genres", searchHandler.Genres)
		apiGroup.GET("/genres/search", searchHandler.SearchByGenre)
		apiGroup.POST("/genres/random", searchHandler.RandomByGenre)

		// Playback control endpoints
		playbackGroup := apiGroup.Group("/playback")
		{
			playbackGroup.POST("/play", playbackHandler.Play)
			playbackGroup.POST("/stop", playbackHandler.Stop)
			playbackGroup.POST("/pause", playbackHandler.Pause)
			playbackGroup.POST("/resume", playbackHandler.Resume)
			playbackGroup.POST("/next", playbackHandler.Next)
			playbackGroup.POST("/previous", playbackHandler.Previous)
			playbackGroup.POST("/seek", playbackHandler.Seek)
			playbackGroup.POST("/skip-forward", playbackHandler.SkipForward)
			playbackGroup.POST("/skip-backward", playbackHandler.SkipBackward)
			playbackGroup.POST("/volume", playbackHandler.SetVolume)
			playbackGroup.GET("/status", playbackHandler.Status)
		}

		// Media engine diagnostics
		apiGroup.GET("/diagnose", playbackHandler.Diagnose)

		// WebSocket endpoint for playback events
		wsGroup := apiGroup.Group("/ws")
		{
			wsGroup.GET("/events", eventsHandler.Stream)
		}
	}
}

// setupLogger creates a logger with the specified configuration
func setupLogger(logLevel string) zerolog.Logger {
	level := zerolog.InfoLevel
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger()
}
