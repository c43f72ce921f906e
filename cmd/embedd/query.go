package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	queryCollection string
	queryK          int
	queryJSON       bool
)

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryCollection, "collection", "c", "", "Collection to search (default: server's default collection)")
	queryCmd.Flags().IntVarP(&queryK, "top", "k", 5, "Number of results to return")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print raw JSON results")
}

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Search stored documents by similarity",
	Long: `Search the vector store for documents similar to the query text.

Examples:
  # Search the default collection
  embedd query "how do I rotate api keys"

  # Search a named collection, top 10
  embedd query --collection notes -k 10 "deployment checklist"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

// searchRequest / searchResponse mirror the /api/v1/search bodies.
type searchRequest struct {
	Query      string `json:"query"`
	Collection string `json:"collection,omitempty"`
	K          int    `json:"k,omitempty"`
}

type searchResult struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
	Count   int            `json:"count"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	req := searchRequest{
		Query:      args[0],
		Collection: queryCollection,
		K:          queryK,
	}

	var resp searchResponse
	if err := postJSON("/api/v1/search", req, &resp); err != nil {
		return err
	}

	if queryJSON {
		return writeJSON(cmd.OutOrStdout(), resp.Results)
	}

	if resp.Count == 0 {
		cmd.Println("No results.")
		return nil
	}

	for i, r := range resp.Results {
		content := r.Content
		if idx := strings.IndexByte(content, '\n'); idx != -1 {
			content = content[:idx] + " ..."
		}
		cmd.Printf("%2d. [%.4f] %s\n", i+1, r.Score, content)
		if len(r.Metadata) > 0 {
			cmd.Printf("    %s\n", formatMetadata(r.Metadata))
		}
	}

	return nil
}

func formatMetadata(md map[string]string) string {
	pairs := make([]string, 0, len(md))
	for k, v := range md {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}
