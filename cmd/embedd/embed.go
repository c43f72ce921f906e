package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	embedAsQuery bool
)

func init() {
	rootCmd.AddCommand(embedCmd)
	embedCmd.Flags().BoolVarP(&embedAsQuery, "query", "q", false, "Embed as a search query (applies the model's query instruction)")
}

var embedCmd = &cobra.Command{
	Use:   "embed [text...]",
	Short: "Generate embeddings for texts",
	Long: `Generate embeddings for one or more texts using a running embedd server.
Texts are passed as arguments, or read from stdin (one per line) when no
arguments are given or the single argument is '-'.

Output is a JSON array of vectors on stdout.

Examples:
  # Embed two texts
  embedd embed "first text" "second text"

  # Embed lines from stdin
  cat corpus.txt | embedd embed

  # Embed a search query (query-side instruction prefix applied)
  embedd embed --query "how do I rotate api keys"`,
	RunE: runEmbed,
}

// embedRequest / embedResponse mirror the /api/v1/embed bodies.
type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Model      string      `json:"model"`
	Dimension  int         `json:"dimension"`
	Count      int         `json:"count"`
}

type embedQueryRequest struct {
	Text string `json:"text"`
}

type embedQueryResponse struct {
	Embedding []float32 `json:"embedding"`
	Model     string    `json:"model"`
	Dimension int       `json:"dimension"`
}

func runEmbed(cmd *cobra.Command, args []string) error {
	texts, err := collectTexts(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("no texts to embed")
	}

	if embedAsQuery {
		if len(texts) != 1 {
			return fmt.Errorf("--query embeds exactly one text, got %d", len(texts))
		}

		var resp embedQueryResponse
		if err := postJSON("/api/v1/embed_query", embedQueryRequest{Text: texts[0]}, &resp); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "[embedd] model=%s dimension=%d\n", resp.Model, resp.Dimension)
		return writeJSON(cmd.OutOrStdout(), resp.Embedding)
	}

	var resp embedResponse
	if err := postJSON("/api/v1/embed", embedRequest{Texts: texts}, &resp); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "[embedd] model=%s dimension=%d count=%d\n", resp.Model, resp.Dimension, resp.Count)
	return writeJSON(cmd.OutOrStdout(), resp.Embeddings)
}

// collectTexts gathers input texts from args or stdin lines.
func collectTexts(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return args, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	var texts []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			texts = append(texts, line)
		}
	}
	return texts, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
