// Package http provides the HTTP API for embedd.
package http

import "github.com/fyrsmithlabs/embedd/internal/vectorstore"

// EmbedRequest is the request body for POST /api/v1/embed.
type EmbedRequest struct {
	Texts []string `json:"texts"`
}

// EmbedResponse is the response body for POST /api/v1/embed.
type EmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Model      string      `json:"model"`
	Dimension  int         `json:"dimension"`
	Count      int         `json:"count"`
}

// EmbedQueryRequest is the request body for POST /api/v1/embed_query.
type EmbedQueryRequest struct {
	Text string `json:"text"`
}

// EmbedQueryResponse is the response body for POST /api/v1/embed_query.
type EmbedQueryResponse struct {
	Embedding []float32 `json:"embedding"`
	Model     string    `json:"model"`
	Dimension int       `json:"dimension"`
}

// AddDocumentsRequest is the request body for POST /api/v1/documents.
type AddDocumentsRequest struct {
	Documents []vectorstore.Document `json:"documents"`
}

// AddDocumentsResponse is the response body for POST /api/v1/documents.
type AddDocumentsResponse struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

// SearchRequest is the request body for POST /api/v1/search.
type SearchRequest struct {
	Query      string `json:"query"`
	Collection string `json:"collection,omitempty"`
	K          int    `json:"k,omitempty"`
}

// SearchResponse is the response body for POST /api/v1/search.
type SearchResponse struct {
	Results []vectorstore.SearchResult `json:"results"`
	Count   int                        `json:"count"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
	Version   string `json:"version,omitempty"`
}
