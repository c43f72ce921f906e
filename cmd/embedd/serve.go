package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/embedd/internal/config"
	"github.com/fyrsmithlabs/embedd/internal/embeddings"
	httpapi "github.com/fyrsmithlabs/embedd/internal/http"
	"github.com/fyrsmithlabs/embedd/internal/logging"
	"github.com/fyrsmithlabs/embedd/internal/telemetry"
	"github.com/fyrsmithlabs/embedd/internal/vectorstore"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the embedd HTTP server",
	Long: `Start the embedd daemon: loads configuration, initializes the embedding
provider and vector store, and serves the HTTP API until SIGINT/SIGTERM.

Examples:
  # Start with default config (~/.config/embedd/config.yaml)
  embedd serve

  # Start with an explicit config file
  embedd serve --config /etc/embedd/config.yaml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWithFile(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	tel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		_ = tel.Shutdown(context.Background())
	}()

	logger, err := initLogger(cfg, tel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info(ctx, "starting embedd",
		zap.String("version", version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("provider", providerName(cfg)),
		zap.String("model", cfg.Embeddings.Model))

	provider, err := embeddings.NewProvider(providerConfig(cfg))
	if err != nil {
		return fmt.Errorf("creating embedding provider: %w", err)
	}
	defer func() {
		_ = provider.Close()
	}()

	logger.Info(ctx, "embedding provider ready",
		zap.String("provider", providerName(cfg)),
		zap.Int("dimension", provider.Dimension()))

	store, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{
		Path:              cfg.VectorStore.Path,
		Compress:          cfg.VectorStore.Compress,
		DefaultCollection: cfg.VectorStore.DefaultCollection,
		VectorSize:        cfg.VectorStore.VectorSize,
	}, provider, logger.Underlying())
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	srv, err := httpapi.NewServer(provider, store, logger.Underlying(), &httpapi.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		RequestTimeout: cfg.Server.RequestTimeout.Duration(),
		Model:          cfg.Embeddings.Model,
		Version:        version,
	})
	if err != nil {
		return fmt.Errorf("creating http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	logger.Info(context.Background(), "shutdown complete")
	return nil
}

// initTelemetry builds the OTel stack from the observability config section.
func initTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Telemetry, error) {
	telCfg := telemetry.NewDefaultConfig()
	telCfg.Enabled = cfg.Observability.Enabled
	if cfg.Observability.Endpoint != "" {
		telCfg.Endpoint = cfg.Observability.Endpoint
	}
	if cfg.Observability.Protocol != "" {
		telCfg.Protocol = cfg.Observability.Protocol
	}
	if cfg.Observability.ServiceName != "" {
		telCfg.ServiceName = cfg.Observability.ServiceName
	}
	if cfg.Observability.ServiceVersion != "" {
		telCfg.ServiceVersion = cfg.Observability.ServiceVersion
	}
	telCfg.Insecure = cfg.Observability.Insecure

	return telemetry.New(ctx, telCfg)
}

// initLogger builds the structured logger from the logging config section,
// routing to OTel when telemetry is enabled.
func initLogger(cfg *config.Config, tel *telemetry.Telemetry) (*logging.Logger, error) {
	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	logCfg := logging.NewDefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.Logging.Format

	var otelProvider = tel.LoggerProvider()
	logCfg.Output.OTEL = otelProvider != nil

	return logging.NewLogger(logCfg, otelProvider)
}

// providerConfig maps the file config onto the embeddings factory config.
func providerConfig(cfg *config.Config) embeddings.ProviderConfig {
	return embeddings.ProviderConfig{
		Provider:          cfg.Embeddings.Provider,
		Model:             cfg.Embeddings.Model,
		BaseURL:           cfg.Embeddings.BaseURL,
		APIKey:            cfg.Embeddings.APIKey.Value(),
		CacheDir:          cfg.Embeddings.CacheDir,
		Pooling:           cfg.Embeddings.Pooling,
		Normalize:         cfg.Embeddings.Normalize,
		QueryInstruction:  cfg.Embeddings.QueryInstruction,
		TextInstruction:   cfg.Embeddings.TextInstruction,
		Concurrency:       cfg.Embeddings.Concurrency,
		RequestsPerSecond: cfg.Embeddings.RequestsPerSecond,
		Dimension:         cfg.Embeddings.Dimension,
		ShowProgress:      cfg.Embeddings.ShowProgress,
	}
}

func providerName(cfg *config.Config) string {
	if cfg.Embeddings.Provider == "" {
		return "fastembed"
	}
	return cfg.Embeddings.Provider
}
