package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Root music directory; every file operation resolves within it
	MusicDir string

	// HTTP port for the tool surface
	Port int

	// Initial playback volume on the 0-10 scale
	DefaultVolume int

	Search SearchConfig
	Engine EngineConfig
}

// SearchConfig holds the tunable scoring thresholds
type SearchConfig struct {
	// Candidates scoring below MinScore are discarded
	MinScore float64

	// search-and-play refuses to autoplay below ConfidenceThreshold
	ConfidenceThreshold float64

	// random-by-artist picks uniformly among candidates at or above ArtistBand
	ArtistBand float64
}

// EngineConfig holds media engine settings
type EngineConfig struct {
	// Binary is the player executable, resolved via PATH
	Binary string

	// SocketDir is where per-track IPC sockets are created
	SocketDir string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getConfigDir())
	v.AddConfigPath(".")

	v.SetDefault("music_dir", defaultMusicDir())
	v.SetDefault("port", 8080)
	v.SetDefault("default_volume", 3)
	v.SetDefault("search.min_score", 30.0)
	v.SetDefault("search.confidence_threshold", 60.0)
	v.SetDefault("search.artist_band", 75.0)
	v.SetDefault("engine.binary", "mpv")
	v.SetDefault("engine.socket_dir", os.TempDir())

	// Config file is optional
	_ = v.ReadInConfig()

	v.SetEnvPrefix("CADENZA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		MusicDir:      v.GetString("music_dir"),
		Port:          v.GetInt("port"),
		DefaultVolume: v.GetInt("default_volume"),
		Search: SearchConfig{
			MinScore:            v.GetFloat64("search.min_score"),
			ConfidenceThreshold: v.GetFloat64("search.confidence_threshold"),
			ArtistBand:          v.GetFloat64("search.artist_band"),
		},
		Engine: EngineConfig{
			Binary:    v.GetString("engine.binary"),
			SocketDir: v.GetString("engine.socket_dir"),
		},
	}

	return cfg, nil
}

// defaultMusicDir returns the platform music folder, falling back to the
// working directory when the home directory cannot be resolved.
func defaultMusicDir() string {
	if dir := os.Getenv("CADENZA_MUSIC_DIR"); dir != "" {
		return dir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "music")
	}

	return filepath.Join(homeDir, "Music")
}

// getConfigDir returns the configuration directory path
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(homeDir, ".config", "cadenza")
}
