package embeddings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/embedd/internal/pooling"
	"github.com/fyrsmithlabs/embedd/internal/vectorstore"
)

var (
	// ErrEmptyInput indicates empty or nil input texts.
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrPoolingRequired indicates the endpoint returned token-level
	// embeddings but no pooling strategy was configured.
	ErrPoolingRequired = errors.New("model returned token-level embeddings, pooling strategy required")
)

// Provider is the interface for embedding providers.
type Provider interface {
	vectorstore.Embedder
	// Dimension returns the embedding dimension for the current model.
	Dimension() int
	// Close releases resources held by the provider.
	Close() error
}

// ProviderConfig holds configuration for creating an embedding provider.
type ProviderConfig struct {
	// Provider is the provider type: "fastembed", "inference", "tei" or "openai".
	// Empty defaults to "fastembed".
	Provider string `koanf:"provider"`

	// Model is the embedding model name.
	Model string `koanf:"model"`

	// BaseURL is the endpoint URL (inference, tei and openai providers).
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates remote providers. Optional for TEI.
	APIKey string `koanf:"api_key"`

	// CacheDir is the model cache directory (fastembed only).
	CacheDir string `koanf:"cache_dir"`

	// Pooling selects client-side pooling for token-level responses
	// (inference only): "cls" or "mean". Empty expects server-side pooling.
	Pooling string `koanf:"pooling"`

	// Normalize L2-normalizes client-pooled vectors (inference only).
	Normalize bool `koanf:"normalize"`

	// QueryInstruction overrides the per-model query instruction prefix.
	QueryInstruction string `koanf:"query_instruction"`

	// TextInstruction overrides the per-model document instruction prefix.
	TextInstruction string `koanf:"text_instruction"`

	// Concurrency caps in-flight requests for the inference fan-out.
	Concurrency int `koanf:"concurrency"`

	// RequestsPerSecond rate-limits remote calls. 0 disables limiting.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// Dimension overrides dimension detection for unknown models.
	Dimension int `koanf:"dimension"`

	// ShowProgress enables progress bars for model downloads (fastembed).
	ShowProgress bool `koanf:"show_progress"`
}

// validateTexts rejects nil and empty batches, and empty elements within a
// batch, before anything reaches a model or backend.
func validateTexts(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}
	for i, text := range texts {
		if text == "" {
			return fmt.Errorf("%w: text %d is empty", ErrEmptyInput, i)
		}
	}
	return nil
}

// detectDimensionFromModel returns the embedding dimension for a model name.
// Falls back to 384 if the model is unknown.
func detectDimensionFromModel(model string) int {
	if dim, ok := fastEmbedModelDimension(model); ok {
		return dim
	}
	// Common model naming patterns.
	switch {
	case strings.Contains(model, "base"):
		return 768
	case strings.Contains(model, "large"):
		return 1024
	case strings.Contains(model, "small"), strings.Contains(model, "mini"):
		return 384
	default:
		return 384
	}
}

// NewProvider creates an embedding provider based on the configuration.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "fastembed", "":
		return NewFastEmbedProvider(FastEmbedConfig{
			Model:        cfg.Model,
			CacheDir:     cfg.CacheDir,
			ShowProgress: cfg.ShowProgress,
		})

	case "inference":
		var strategy pooling.Strategy
		if cfg.Pooling != "" {
			var err error
			strategy, err = pooling.ParseStrategy(cfg.Pooling)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
			}
		}
		return NewInferenceProvider(InferenceConfig{
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			APIKey:            cfg.APIKey,
			Pooling:           strategy,
			Normalize:         cfg.Normalize,
			QueryInstruction:  cfg.QueryInstruction,
			TextInstruction:   cfg.TextInstruction,
			Concurrency:       cfg.Concurrency,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Dimension:         cfg.Dimension,
		})

	case "tei":
		return NewTEIProvider(TEIConfig{
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			APIKey:    cfg.APIKey,
			Dimension: cfg.Dimension,
		})

	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			APIKey:    cfg.APIKey,
			Dimension: cfg.Dimension,
		})

	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
