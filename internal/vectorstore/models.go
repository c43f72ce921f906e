package vectorstore

// Document represents a document to be stored in the vector store.
type Document struct {
	// ID is the unique identifier for the document.
	// If empty, the store assigns a generated UUID.
	ID string `json:"id,omitempty"`

	// Content is the text content of the document.
	Content string `json:"content"`

	// Metadata contains additional key-value pairs attached to the document.
	Metadata map[string]string `json:"metadata,omitempty"`

	// Collection is the target collection name for this document.
	// If empty, the store's default collection is used.
	Collection string `json:"collection,omitempty"`
}

// SearchResult represents a search result from the vector store.
type SearchResult struct {
	// ID is the document identifier.
	ID string `json:"id"`

	// Content is the document text content.
	Content string `json:"content"`

	// Score is the similarity score (higher = more similar).
	Score float32 `json:"score"`

	// Metadata contains the document metadata.
	Metadata map[string]string `json:"metadata,omitempty"`
}
