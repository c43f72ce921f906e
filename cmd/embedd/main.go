// Package main implements the embedd CLI: an embedding daemon plus client
// commands for talking to a running daemon.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	// configFile is the path to the YAML config file. Empty uses the default
	// at ~/.config/embedd/config.yaml.
	configFile string

	// serverURL is the base URL client commands send requests to.
	serverURL string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "embedd",
	Short: "Embedding daemon and CLI",
	Long: `embedd generates text embeddings locally (via ONNX) or through hosted
inference endpoints, and stores them in an embedded vector database.

Run 'embedd serve' to start the daemon, then use 'embed' and 'query'
to talk to it.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default ~/.config/embedd/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8090", "embedd server URL for client commands")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("embedd by Fyrsmith Labs\n")
		cmd.Printf("Version:    %s\n", version)
		cmd.Printf("Commit:     %s\n", gitCommit)
		cmd.Printf("Build Date: %s\n", buildDate)
	},
}
