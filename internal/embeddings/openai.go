package embeddings

import (
	"context"
	"fmt"

	lcembeddings "github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIConfig holds configuration for OpenAI-compatible embedding endpoints.
type OpenAIConfig struct {
	// BaseURL is the API root, e.g. "https://api.openai.com/v1".
	// Works for any OpenAI-compatible /v1/embeddings server.
	BaseURL string

	// Model is the embedding model, e.g. "text-embedding-3-small".
	Model string

	// APIKey authenticates requests. Required by OpenAI itself; compatible
	// local servers usually accept any value.
	APIKey string

	// Dimension overrides dimension detection for unknown models.
	Dimension int
}

// Validate validates the configuration.
func (c OpenAIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	return nil
}

// openAIModelDimensions maps OpenAI embedding models to their default
// output dimensions.
var openAIModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAIProvider generates embeddings via langchaingo's OpenAI embedder.
type OpenAIProvider struct {
	embedder  *lcembeddings.EmbedderImpl
	config    OpenAIConfig
	dimension int
}

// NewOpenAIProvider creates a provider for OpenAI-compatible endpoints.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// langchaingo requires a token even for servers that ignore it.
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "placeholder"
	}

	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithEmbeddingModel(cfg.Model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	embedder, err := lcembeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	dimension := cfg.Dimension
	if dimension == 0 {
		if dim, ok := openAIModelDimensions[cfg.Model]; ok {
			dimension = dim
		} else {
			dimension = detectDimensionFromModel(cfg.Model)
		}
	}

	return &OpenAIProvider{
		embedder:  embedder,
		config:    cfg,
		dimension: dimension,
	}, nil
}

// EmbedDocuments generates embeddings for multiple texts.
func (p *OpenAIProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	return vectors, nil
}

// EmbedQuery generates an embedding for a single query.
func (p *OpenAIProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}

	vector, err := p.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	return vector, nil
}

// Dimension returns the embedding dimension for the configured model.
func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}

// Close is a no-op for the HTTP-based provider.
func (p *OpenAIProvider) Close() error {
	return nil
}
