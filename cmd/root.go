package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cadenza",
	Short: "Remote control surface for a local music collection",
	Long: `cadenza exposes a local music collection over HTTP so that remote
clients can search it, start playback, and steer the player.

It scans a music directory for audio files, reads their tags, and ranks
free-text queries against artist, title, and filename fields. Playback
runs through a local media engine, with a WebSocket feed of playback
events for connected clients.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
