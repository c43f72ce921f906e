package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	addCollection string
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addCollection, "collection", "c", "", "Collection to store documents in (default: server's default collection)")
}

var addCmd = &cobra.Command{
	Use:   "add [file...]",
	Short: "Embed and store documents",
	Long: `Embed files (or stdin) and store them in the vector store.
Each file becomes one document with its path recorded as metadata.

Examples:
  # Store two files
  embedd add notes/a.md notes/b.md

  # Store stdin as a single document
  cat transcript.txt | embedd add -

  # Store into a named collection
  embedd add --collection notes notes/*.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

// addDocument / addRequest / addResponse mirror the /api/v1/documents bodies.
type addDocument struct {
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Collection string            `json:"collection,omitempty"`
}

type addRequest struct {
	Documents []addDocument `json:"documents"`
}

type addResponse struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

func runAdd(cmd *cobra.Command, args []string) error {
	var docs []addDocument

	for _, arg := range args {
		var content []byte
		var err error
		metadata := map[string]string{}

		if arg == "-" {
			content, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read from stdin: %w", err)
			}
			metadata["source"] = "stdin"
		} else {
			content, err = os.ReadFile(arg)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", arg, err)
			}
			metadata["source"] = filepath.Clean(arg)
		}

		if len(content) == 0 {
			return fmt.Errorf("%s is empty", arg)
		}

		docs = append(docs, addDocument{
			Content:    string(content),
			Metadata:   metadata,
			Collection: addCollection,
		})
	}

	var resp addResponse
	if err := postJSON("/api/v1/documents", addRequest{Documents: docs}, &resp); err != nil {
		return err
	}

	cmd.Printf("Stored %d document(s)\n", resp.Count)
	for _, id := range resp.IDs {
		cmd.Printf("  %s\n", id)
	}

	return nil
}
