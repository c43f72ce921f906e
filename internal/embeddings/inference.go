package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/embedd/internal/pooling"
)

// defaultInferenceConcurrency caps concurrent feature-extraction requests.
const defaultInferenceConcurrency = 8

// InferenceConfig holds configuration for the hosted inference provider.
type InferenceConfig struct {
	// BaseURL is the inference endpoint root,
	// e.g. "https://api-inference.huggingface.co".
	BaseURL string

	// Model is the embedding model name, appended to the
	// feature-extraction pipeline path.
	Model string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Pooling is applied client-side when the endpoint returns token-level
	// matrices. Empty means the model is expected to pool server-side.
	Pooling pooling.Strategy

	// Normalize L2-normalizes client-pooled vectors.
	Normalize bool

	// QueryInstruction and TextInstruction prefix query and document texts.
	// Empty falls back to the model's known defaults.
	QueryInstruction string
	TextInstruction  string

	// Concurrency caps in-flight requests during fan-out. Defaults to 8.
	Concurrency int

	// RequestsPerSecond rate-limits outgoing requests. 0 disables limiting.
	RequestsPerSecond float64

	// Dimension overrides dimension detection for unknown models.
	Dimension int

	// HTTPClient overrides the default client (for tests).
	HTTPClient *http.Client
}

// Validate validates the configuration.
func (c InferenceConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("%w: invalid base URL: %v", ErrInvalidConfig, err)
	}
	return nil
}

// InferenceProvider generates embeddings via a hosted feature-extraction API.
//
// Each text is embedded with its own HTTP request; EmbedDocuments fans the
// requests out concurrently and joins results back in input order. Responses
// are either pre-pooled vectors (used as-is) or token-level matrices, which
// require the configured pooling strategy.
type InferenceProvider struct {
	config    InferenceConfig
	endpoint  string
	client    *http.Client
	limiter   *rate.Limiter
	metrics   *Metrics
	dimension int

	queryInstruction string
	textInstruction  string
}

// NewInferenceProvider creates a hosted inference embedding provider.
func NewInferenceProvider(cfg InferenceConfig) (*InferenceProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	dimension := cfg.Dimension
	if dimension == 0 {
		dimension = detectDimensionFromModel(cfg.Model)
	}

	queryInstruction := cfg.QueryInstruction
	if queryInstruction == "" {
		queryInstruction = queryInstructionForModel(cfg.Model)
	}
	textInstruction := cfg.TextInstruction
	if textInstruction == "" {
		textInstruction = textInstructionForModel(cfg.Model)
	}

	return &InferenceProvider{
		config:           cfg,
		endpoint:         strings.TrimSuffix(cfg.BaseURL, "/") + "/pipeline/feature-extraction/" + cfg.Model,
		client:           client,
		limiter:          limiter,
		metrics:          newNopMetrics(),
		dimension:        dimension,
		queryInstruction: queryInstruction,
		textInstruction:  textInstruction,
	}, nil
}

// SetMetrics attaches a Metrics instance. Safe to call before first use only.
func (p *InferenceProvider) SetMetrics(m *Metrics) {
	if m != nil {
		p.metrics = m
	}
}

// EmbedDocuments generates embeddings for multiple texts, one request per
// text, fanned out concurrently. Results preserve input order.
func (p *InferenceProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		p.metrics.RecordGeneration(ctx, p.config.Model, "embed_documents", time.Since(start), len(texts), genErr)
	}()

	if err := validateTexts(texts); err != nil {
		genErr = err
		return nil, genErr
	}

	concurrency := p.config.Concurrency
	if concurrency <= 0 {
		concurrency = defaultInferenceConcurrency
	}

	vectors := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, text := range texts {
		g.Go(func() error {
			vec, err := p.embedOne(gctx, formatInstruction(p.textInstruction, text))
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			vectors[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		genErr = err
		return nil, genErr
	}

	return vectors, nil
}

// EmbedQuery generates an embedding for a single query, applying the
// model's query instruction prefix.
func (p *InferenceProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		p.metrics.RecordGeneration(ctx, p.config.Model, "embed_query", time.Since(start), 1, genErr)
	}()

	if text == "" {
		genErr = fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
		return nil, genErr
	}

	vec, err := p.embedOne(ctx, formatInstruction(p.queryInstruction, text))
	if err != nil {
		genErr = err
		return nil, genErr
	}
	return vec, nil
}

// inferenceRequest is the request body for the feature-extraction pipeline.
type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// embedOne issues a single feature-extraction request and reduces the
// response to one vector.
func (p *InferenceProvider) embedOne(ctx context.Context, text string) ([]float32, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
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

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return p.reduceResponse(raw)
}

// reduceResponse turns a feature-extraction response into a single vector.
//
// The response shape depends on the model: a flat vector means the model
// pooled server-side; a token matrix needs client-side pooling; a 3-D array
// with a leading batch axis of one is squeezed first.
func (p *InferenceProvider) reduceResponse(raw []byte) ([]float32, error) {
	// Pre-pooled: [dim]float
	var flat []float32
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}

	// Token-level: [tokens][dim]float
	var matrix [][]float32
	if err := json.Unmarshal(raw, &matrix); err == nil {
		return p.poolMatrix(matrix)
	}

	// Batched: [1][tokens][dim]float
	var batched [][][]float32
	if err := json.Unmarshal(raw, &batched); err == nil {
		if len(batched) != 1 {
			return nil, fmt.Errorf("%w: unexpected batch of %d responses for one input", ErrEmbeddingFailed, len(batched))
		}
		return p.poolMatrix(batched[0])
	}

	return nil, fmt.Errorf("%w: unrecognized response shape", ErrEmbeddingFailed)
}

// poolMatrix applies the configured pooling to a token matrix.
func (p *InferenceProvider) poolMatrix(matrix [][]float32) ([]float32, error) {
	if len(matrix) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrEmbeddingFailed)
	}
	if p.config.Pooling == "" {
		return nil, fmt.Errorf("%w: model %s", ErrPoolingRequired, p.config.Model)
	}

	// The API exposes no attention mask; every returned token position
	// counts. This matches pooling over the raw extraction output.
	vec, err := pooling.Pool(p.config.Pooling, matrix, nil)
	if err != nil {
		return nil, fmt.Errorf("pooling response: %w", err)
	}

	if p.config.Normalize {
		vec = pooling.Normalize(vec)
	}
	return vec, nil
}

// Dimension returns the embedding dimension for the configured model.
func (p *InferenceProvider) Dimension() int {
	return p.dimension
}

// Close is a no-op for the HTTP-based provider.
func (p *InferenceProvider) Close() error {
	return nil
}
