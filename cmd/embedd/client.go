package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// clientTimeout bounds client command requests. Embedding a large batch on
// CPU can take a while, so this is generous.
const clientTimeout = 120 * time.Second

// postJSON sends a JSON request to the server and decodes the response into out.
func postJSON(path string, reqBody, out any) error {
	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := serverURL + path
	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: clientTimeout}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check embedd server health",
	Long: `Check the health status of a running embedd server.

Examples:
  # Check health
  embedd health

  # Check health on a different server
  embedd health --server http://localhost:8080`,
	RunE: runHealth,
}

// healthResponse mirrors the /health response body.
type healthResponse struct {
	Status    string `json:"status"`
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
	Version   string `json:"version"`
}

func runHealth(cmd *cobra.Command, args []string) error {
	url := serverURL + "/health"

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	cmd.Printf("Server Status: %s\n", health.Status)
	cmd.Printf("Model:         %s\n", health.Model)
	cmd.Printf("Dimension:     %d\n", health.Dimension)
	if health.Version != "" {
		cmd.Printf("Version:       %s\n", health.Version)
	}
	cmd.Printf("Server URL:    %s\n", serverURL)

	return nil
}
