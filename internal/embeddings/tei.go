package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TEIConfig holds configuration for the Text Embeddings Inference provider.
type TEIConfig struct {
	// BaseURL is the TEI server URL, e.g. "http://localhost:8080".
	BaseURL string

	// Model is the model the server was started with. Informational; TEI
	// serves a single model per instance.
	Model string

	// APIKey is sent as a bearer token when set. Optional for TEI.
	APIKey string

	// Dimension overrides dimension detection for unknown models.
	Dimension int

	// HTTPClient overrides the default client (for tests).
	HTTPClient *http.Client
}

// Validate validates the configuration.
func (c TEIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	return nil
}

// TEIProvider generates embeddings via a TEI server's /embed endpoint.
// TEI pools and normalizes server-side, so a whole batch goes in one request.
type TEIProvider struct {
	config    TEIConfig
	client    *http.Client
	metrics   *Metrics
	dimension int
}

// NewTEIProvider creates a new TEI embedding provider.
func NewTEIProvider(cfg TEIConfig) (*TEIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	dimension := cfg.Dimension
	if dimension == 0 {
		dimension = detectDimensionFromModel(cfg.Model)
	}

	return &TEIProvider{
		config:    cfg,
		client:    client,
		metrics:   newNopMetrics(),
		dimension: dimension,
	}, nil
}

// SetMetrics attaches a Metrics instance. Safe to call before first use only.
func (p *TEIProvider) SetMetrics(m *Metrics) {
	if m != nil {
		p.metrics = m
	}
}

// teiRequest is the request body for the TEI embed endpoint.
type teiRequest struct {
	Inputs   interface{} `json:"inputs"`
	Truncate bool        `json:"truncate"`
}

// embed posts inputs to /embed and decodes the vector batch.
func (p *TEIProvider) embed(ctx context.Context, inputs interface{}) ([][]float32, error) {
	body, err := json.Marshal(teiRequest{Inputs: inputs, Truncate: true})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrEmbeddingFailed, resp.StatusCode, string(respBody))
	}

	var vectors [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return vectors, nil
}

// EmbedDocuments generates embeddings for multiple texts in one batch call.
func (p *TEIProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		p.metrics.RecordGeneration(ctx, p.config.Model, "embed_documents", time.Since(start), len(texts), genErr)
	}()

	if err := validateTexts(texts); err != nil {
		genErr = err
		return nil, genErr
	}

	vectors, err := p.embed(ctx, texts)
	if err != nil {
		genErr = err
		return nil, genErr
	}

	if len(vectors) != len(texts) {
		genErr = fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingFailed, len(vectors), len(texts))
		return nil, genErr
	}

	return vectors, nil
}

// EmbedQuery generates an embedding for a single query.
func (p *TEIProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		p.metrics.RecordGeneration(ctx, p.config.Model, "embed_query", time.Since(start), 1, genErr)
	}()

	if text == "" {
		genErr = fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
		return nil, genErr
	}

	vectors, err := p.embed(ctx, text)
	if err != nil {
		genErr = err
		return nil, genErr
	}

	if len(vectors) == 0 {
		genErr = fmt.Errorf("%w: empty response", ErrEmbeddingFailed)
		return nil, genErr
	}

	return vectors[0], nil
}

// Dimension returns the embedding dimension for the configured model.
func (p *TEIProvider) Dimension() int {
	return p.dimension
}

// Close is a no-op for the HTTP-based provider.
func (p *TEIProvider) Close() error {
	return nil
}
