// Package vectorstore defines the interface for vector storage operations.
package vectorstore

import (
	"context"
	"errors"
)

// Sentinel errors for vector store operations.
var (
	// ErrCollectionNotFound is returned when a collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCollectionExists is returned when attempting to create an existing collection.
	ErrCollectionExists = errors.New("collection already exists")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyDocuments indicates empty or nil documents.
	ErrEmptyDocuments = errors.New("empty or nil documents")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("failed to generate embeddings")

	// ErrInvalidCollectionName indicates collection name validation failure.
	ErrInvalidCollectionName = errors.New("invalid collection name")
)

// Embedder generates vector embeddings from text.
//
// Embeddings are dense numerical representations that capture semantic
// meaning, enabling similarity search. Implementations can run a local model
// (FastEmbed) or call out to hosted APIs (Inference API, TEI, OpenAI).
//
// Both methods preserve order: result i corresponds to input i.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts.
	// Returns one embedding per input text, in input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query.
	// Some models apply a different instruction prefix for queries.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// CollectionInfo contains metadata about a vector collection.
type CollectionInfo struct {
	// Name is the collection name.
	Name string `json:"name"`

	// PointCount is the number of vectors in the collection.
	PointCount int `json:"point_count"`

	// VectorSize is the dimensionality of vectors in this collection.
	VectorSize int `json:"vector_size"`
}

// Store is the interface for vector storage operations.
//
// The interface is transport-agnostic; the default implementation is the
// embedded chromem-go store. Documents are embedded through an Embedder at
// insert time and retrieved by similarity search.
type Store interface {
	// AddDocuments embeds and stores documents, returning their IDs.
	// Documents without an ID are assigned a generated UUID.
	AddDocuments(ctx context.Context, docs []Document) ([]string, error)

	// Search performs similarity search in the default collection, returning
	// up to k results ordered by similarity score (highest first).
	Search(ctx context.Context, query string, k int) ([]SearchResult, error)

	// SearchInCollection performs similarity search in a named collection.
	SearchInCollection(ctx context.Context, collection, query string, k int) ([]SearchResult, error)

	// DeleteDocuments deletes documents by ID from the default collection.
	DeleteDocuments(ctx context.Context, ids []string) error

	// DeleteCollection deletes a collection and all its documents.
	DeleteCollection(ctx context.Context, collection string) error

	// ListCollections returns all collection names.
	ListCollections(ctx context.Context) ([]string, error)

	// GetCollectionInfo returns metadata about a collection, or
	// ErrCollectionNotFound if it does not exist.
	GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error)

	// Close releases store resources.
	Close() error
}
