// Package config provides configuration loading for embedd.
//
// Configuration is loaded from a YAML file overlaid with environment
// variables, with hardcoded defaults for anything left unset.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete embedd configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Logging       LoggingConfig       `koanf:"logging"`
	Observability ObservabilityConfig `koanf:"observability"`
	Embeddings    EmbeddingsConfig    `koanf:"embeddings"`
	VectorStore   VectorStoreConfig   `koanf:"vectorstore"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	RequestTimeout  Duration `koanf:"request_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ObservabilityConfig holds OpenTelemetry export configuration.
type ObservabilityConfig struct {
	Enabled        bool   `koanf:"enabled"`
	Endpoint       string `koanf:"endpoint"`
	Protocol       string `koanf:"protocol"`
	ServiceName    string `koanf:"service_name"`
	ServiceVersion string `koanf:"service_version"`
	Insecure       bool   `koanf:"insecure"`
}

// EmbeddingsConfig holds embedding provider configuration.
type EmbeddingsConfig struct {
	Provider          string  `koanf:"provider"`
	Model             string  `koanf:"model"`
	BaseURL           string  `koanf:"base_url"`
	APIKey            Secret  `koanf:"api_key"`
	CacheDir          string  `koanf:"cache_dir"`
	Pooling           string  `koanf:"pooling"`
	Normalize         bool    `koanf:"normalize"`
	QueryInstruction  string  `koanf:"query_instruction"`
	TextInstruction   string  `koanf:"text_instruction"`
	Concurrency       int     `koanf:"concurrency"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Dimension         int     `koanf:"dimension"`
	ShowProgress      bool    `koanf:"show_progress"`
}

// VectorStoreConfig holds vector store configuration.
type VectorStoreConfig struct {
	Path              string `koanf:"path"`
	Compress          bool   `koanf:"compress"`
	DefaultCollection string `koanf:"default_collection"`
	VectorSize        int    `koanf:"vector_size"`
}

// knownProviders are the embedding provider names the factory accepts.
// Empty means fastembed.
var knownProviders = map[string]bool{
	"":          true,
	"fastembed": true,
	"inference": true,
	"tei":       true,
	"openai":    true,
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = Duration(60 * time.Second)
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	// Observability defaults
	if cfg.Observability.Endpoint == "" {
		cfg.Observability.Endpoint = "localhost:4317"
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "embedd"
	}
	if cfg.Observability.ServiceVersion == "" {
		cfg.Observability.ServiceVersion = "0.1.0"
	}

	// Embeddings defaults (fastembed with the small BGE model)
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = "BAAI/bge-small-en-v1.5"
	}

	// VectorStore defaults
	if cfg.VectorStore.Path == "" {
		cfg.VectorStore.Path = "~/.config/embedd/vectorstore"
	}
	if cfg.VectorStore.DefaultCollection == "" {
		cfg.VectorStore.DefaultCollection = "embedd_default"
	}
	if cfg.VectorStore.VectorSize == 0 {
		cfg.VectorStore.VectorSize = 384 // bge-small-en-v1.5 dimensions
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Server.RequestTimeout.Duration() <= 0 {
		return errors.New("request timeout must be positive")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Observability.Enabled && c.Observability.ServiceName == "" {
		return errors.New("service name required when observability is enabled")
	}

	if !knownProviders[c.Embeddings.Provider] {
		return fmt.Errorf("unknown embeddings provider: %q (expected fastembed, inference, tei or openai)", c.Embeddings.Provider)
	}
	switch c.Embeddings.Provider {
	case "inference", "tei":
		if c.Embeddings.BaseURL == "" {
			return fmt.Errorf("embeddings base_url required for provider %q", c.Embeddings.Provider)
		}
	case "openai":
		if c.Embeddings.BaseURL == "" {
			return errors.New("embeddings base_url required for provider \"openai\"")
		}
	}
	switch c.Embeddings.Pooling {
	case "", "cls", "mean":
	default:
		return fmt.Errorf("embeddings pooling must be 'cls' or 'mean', got %q", c.Embeddings.Pooling)
	}
	if c.Embeddings.Concurrency < 0 {
		return errors.New("embeddings concurrency must be >= 0")
	}
	if c.Embeddings.RequestsPerSecond < 0 {
		return errors.New("embeddings requests_per_second must be >= 0")
	}

	if c.VectorStore.VectorSize <= 0 {
		return errors.New("vectorstore vector_size must be positive")
	}

	return nil
}
