//go:build cgo

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/embedd/internal/config"
	"github.com/fyrsmithlabs/embedd/internal/embeddings"
)

var (
	forceDownload bool
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&forceDownload, "force", "f", false, "Force re-download even if ONNX runtime exists")
}

// initCmd initializes embedd dependencies
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize embedd dependencies",
	Long: `Initialize embedd by downloading required dependencies.

Currently this downloads the ONNX runtime library required for local
embeddings with FastEmbed. The library is installed to:
  ~/.config/embedd/lib/

If ONNX_PATH environment variable is set, that path takes precedence.

Examples:
  # Initialize embedd (download ONNX runtime)
  embedd init

  # Force re-download even if already installed
  embedd init --force`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	// Config dir first, so a later 'embedd serve' finds its default paths.
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if already installed (unless --force)
	if !forceDownload {
		if path := embeddings.GetONNXLibraryPath(); path != "" {
			cmd.Printf("ONNX runtime already installed at: %s\n", path)
			cmd.Println("Use --force to re-download.")
			return nil
		}
	}

	cmd.Printf("Downloading ONNX runtime v%s...\n", embeddings.DefaultONNXRuntimeVersion)

	if err := embeddings.DownloadONNXRuntime(context.Background(), ""); err != nil {
		return fmt.Errorf("failed to download ONNX runtime: %w", err)
	}

	// Verify installation
	path := embeddings.GetONNXLibraryPath()
	if path == "" {
		return fmt.Errorf("download completed but library not found")
	}

	cmd.Printf("Successfully installed ONNX runtime to: %s\n", path)
	return nil
}
