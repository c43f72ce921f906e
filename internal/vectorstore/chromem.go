package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// chromemTracer for OpenTelemetry instrumentation.
var chromemTracer = otel.Tracer("embedd.vectorstore.chromem")

// collectionNamePattern restricts collection names to a safe character set
// since chromem persists each collection as a directory on disk.
var collectionNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,62}$`)

// ValidateCollectionName checks a collection name against the allowed pattern.
func ValidateCollectionName(name string) error {
	if !collectionNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q (must match %s)", ErrInvalidCollectionName, name, collectionNamePattern.String())
	}
	return nil
}

// ChromemConfig holds configuration for the chromem-go embedded vector database.
type ChromemConfig struct {
	// Path is the directory for persistent storage.
	// Default: "~/.config/embedd/vectorstore"
	Path string `koanf:"path"`

	// Compress enables gzip compression for stored data.
	Compress bool `koanf:"compress"`

	// DefaultCollection is the default collection name.
	// Default: "embedd_default"
	DefaultCollection string `koanf:"default_collection"`

	// VectorSize is the expected embedding dimension.
	// Must match the embedder's output dimension.
	VectorSize int `koanf:"vector_size"`
}

// ApplyDefaults sets default values for unset fields.
func (c *ChromemConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = "~/.config/embedd/vectorstore"
	}
	if c.DefaultCollection == "" {
		c.DefaultCollection = "embedd_default"
	}
	if c.VectorSize == 0 {
		c.VectorSize = 384
	}
}

// Validate validates the configuration.
func (c *ChromemConfig) Validate() error {
	if c.VectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", ErrInvalidConfig)
	}
	return ValidateCollectionName(c.DefaultCollection)
}

// ChromemStore implements the Store interface using chromem-go.
//
// chromem-go is an embeddable vector database with zero third-party
// dependencies: pure Go, no external service, persistence to gob files.
// Embeddings come from the injected Embedder, never from chromem's own
// default embedding function.
type ChromemStore struct {
	db       *chromem.DB
	embedder Embedder
	config   ChromemConfig
	logger   *zap.Logger

	// collections tracks which collections have been touched.
	collections sync.Map
}

// NewChromemStore creates a new ChromemStore with the given configuration.
func NewChromemStore(config ChromemConfig, embedder Embedder, logger *zap.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	expandedPath, err := expandChromemPath(config.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}

	if err := os.MkdirAll(expandedPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", expandedPath, err)
	}

	db, err := chromem.NewPersistentDB(expandedPath, config.Compress)
	if err != nil {
		return nil, fmt.Errorf("creating chromem DB: %w", err)
	}

	store := &ChromemStore{
		db:       db,
		embedder: embedder,
		config:   config,
		logger:   logger,
	}

	logger.Info("chromem store initialized",
		zap.String("path", expandedPath),
		zap.Bool("compress", config.Compress),
		zap.Int("vector_size", config.VectorSize),
		zap.String("default_collection", config.DefaultCollection),
	)

	return store, nil
}

// expandChromemPath expands ~ to the home directory.
func expandChromemPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// createEmbeddingFunc adapts the Embedder to chromem's query-time callback.
func (s *ChromemStore) createEmbeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

// getOrCreateCollection gets or creates a collection with the embedding function.
func (s *ChromemStore) getOrCreateCollection(name string) (*chromem.Collection, error) {
	if err := ValidateCollectionName(name); err != nil {
		return nil, err
	}

	collection, err := s.db.GetOrCreateCollection(name, nil, s.createEmbeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("getting/creating collection %s: %w", name, err)
	}

	s.collections.Store(name, true)
	return collection, nil
}

// AddDocuments embeds and stores documents, returning their IDs.
func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.AddDocuments")
	defer span.End()

	span.SetAttributes(attribute.Int("document_count", len(docs)))

	if len(docs) == 0 {
		return nil, ErrEmptyDocuments
	}

	// Group documents by target collection, preserving original positions
	// so returned IDs line up with the input order.
	byCollection := make(map[string][]int)
	for i, doc := range docs {
		name := doc.Collection
		if name == "" {
			name = s.config.DefaultCollection
		}
		byCollection[name] = append(byCollection[name], i)
	}

	ids := make([]string, len(docs))

	for name, indexes := range byCollection {
		collection, err := s.getOrCreateCollection(name)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}

		texts := make([]string, len(indexes))
		for j, i := range indexes {
			texts[j] = docs[i].Content
		}

		// Generate embeddings in one batch per collection.
		embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
		}

		chromemDocs := make([]chromem.Document, len(indexes))
		for j, i := range indexes {
			id := docs[i].ID
			if id == "" {
				id = uuid.NewString()
			}
			ids[i] = id
			chromemDocs[j] = chromem.Document{
				ID:        id,
				Content:   docs[i].Content,
				Metadata:  docs[i].Metadata,
				Embedding: embeddings[j],
			}
		}

		// Concurrency of 1 since embeddings are already computed.
		if err := collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("adding documents to %s: %w", name, err)
		}
	}

	span.SetAttributes(attribute.Int("documents_added", len(ids)))
	span.SetStatus(codes.Ok, "success")

	s.logger.Debug("added documents to chromem", zap.Int("count", len(docs)))
	return ids, nil
}

// Search performs similarity search in the default collection.
func (s *ChromemStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	return s.SearchInCollection(ctx, s.config.DefaultCollection, query, k)
}

// SearchInCollection performs similarity search in a named collection.
func (s *ChromemStore) SearchInCollection(ctx context.Context, collectionName, query string, k int) ([]SearchResult, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.SearchInCollection")
	defer span.End()

	span.SetAttributes(
		attribute.String("collection", collectionName),
		attribute.Int("k", k),
	)

	if err := ValidateCollectionName(collectionName); err != nil {
		return nil, err
	}

	collection := s.db.GetCollection(collectionName, s.createEmbeddingFunc())
	if collection == nil {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collectionName)
	}

	// chromem rejects k larger than the collection; clamp instead.
	docCount := collection.Count()
	if docCount == 0 {
		return []SearchResult{}, nil
	}
	if k > docCount {
		k = docCount
	}

	results, err := collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("querying collection %s: %w", collectionName, err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			ID:       r.ID,
			Content:  r.Content,
			Score:    r.Similarity,
			Metadata: r.Metadata,
		}
	}

	span.SetAttributes(attribute.Int("results_count", len(searchResults)))
	span.SetStatus(codes.Ok, "success")

	return searchResults, nil
}

// DeleteDocuments deletes documents by ID from the default collection.
func (s *ChromemStore) DeleteDocuments(ctx context.Context, ids []string) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.DeleteDocuments")
	defer span.End()

	span.SetAttributes(attribute.Int("id_count", len(ids)))

	if len(ids) == 0 {
		return ErrEmptyDocuments
	}

	collection := s.db.GetCollection(s.config.DefaultCollection, s.createEmbeddingFunc())
	if collection == nil {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, s.config.DefaultCollection)
	}

	for _, id := range ids {
		if err := collection.Delete(ctx, nil, nil, id); err != nil {
			span.RecordError(err)
			return fmt.Errorf("deleting document %s: %w", id, err)
		}
	}

	span.SetStatus(codes.Ok, "success")
	return nil
}

// DeleteCollection deletes a collection and all its documents.
func (s *ChromemStore) DeleteCollection(ctx context.Context, collectionName string) error {
	_, span := chromemTracer.Start(ctx, "ChromemStore.DeleteCollection")
	defer span.End()

	span.SetAttributes(attribute.String("collection", collectionName))

	if err := ValidateCollectionName(collectionName); err != nil {
		return err
	}

	if err := s.db.DeleteCollection(collectionName); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("deleting collection %s: %w", collectionName, err)
	}

	s.collections.Delete(collectionName)
	span.SetStatus(codes.Ok, "success")

	s.logger.Info("deleted chromem collection", zap.String("collection", collectionName))
	return nil
}

// ListCollections returns all collection names.
func (s *ChromemStore) ListCollections(ctx context.Context) ([]string, error) {
	_, span := chromemTracer.Start(ctx, "ChromemStore.ListCollections")
	defer span.End()

	collectionsMap := s.db.ListCollections()
	names := make([]string, 0, len(collectionsMap))
	for name := range collectionsMap {
		names = append(names, name)
	}

	span.SetAttributes(attribute.Int("collection_count", len(names)))
	return names, nil
}

// GetCollectionInfo returns metadata about a collection.
func (s *ChromemStore) GetCollectionInfo(ctx context.Context, collectionName string) (*CollectionInfo, error) {
	_, span := chromemTracer.Start(ctx, "ChromemStore.GetCollectionInfo")
	defer span.End()

	if err := ValidateCollectionName(collectionName); err != nil {
		return nil, err
	}

	collection := s.db.GetCollection(collectionName, s.createEmbeddingFunc())
	if collection == nil {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collectionName)
	}

	return &CollectionInfo{
		Name:       collectionName,
		PointCount: collection.Count(),
		VectorSize: s.config.VectorSize,
	}, nil
}

// Close releases store resources. chromem persists on write, so this is
// currently a no-op kept for Store interface symmetry.
func (s *ChromemStore) Close() error {
	return nil
}
