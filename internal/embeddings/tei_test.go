package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTEIProvider(t *testing.T) {
	tests := []struct {
		name       string
		cfg        TEIConfig
		wantErr    bool
		errMessage string
	}{
		{
			name: "valid configuration",
			cfg: TEIConfig{
				BaseURL: "http://localhost:8080",
				Model:   "BAAI/bge-small-en-v1.5",
			},
		},
		{
			name: "with API key",
			cfg: TEIConfig{
				BaseURL: "https://tei.internal:8080",
				Model:   "Alibaba-NLP/gte-base-en-v1.5",
				APIKey:  "secret",
			},
		},
		{
			name:       "empty base URL",
			cfg:        TEIConfig{Model: "test"},
			wantErr:    true,
			errMessage: "base URL required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewTEIProvider(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMessage != "" {
					assert.Contains(t, err.Error(), tt.errMessage)
				}
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, provider)
		})
	}
}

// newTEIServer emulates a TEI /embed endpoint returning fixed-size vectors.
func newTEIServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embed", r.URL.Path)

		var req teiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.Truncate)

		var inputs []string
		switch v := req.Inputs.(type) {
		case string:
			inputs = []string{v}
		case []interface{}:
			for _, s := range v {
				inputs = append(inputs, s.(string))
			}
		}

		vectors := make([][]float32, len(inputs))
		for i := range inputs {
			vectors[i] = []float32{float32(i), 0.5}
		}
		json.NewEncoder(w).Encode(vectors)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTEIProvider_EmbedDocuments(t *testing.T) {
	srv := newTEIServer(t)

	provider, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL, Model: "BAAI/bge-small-en-v1.5"})
	require.NoError(t, err)

	vectors, err := provider.EmbedDocuments(context.Background(), []string{"first", "second", "third"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for i, vec := range vectors {
		assert.Equal(t, []float32{float32(i), 0.5}, vec)
	}
}

func TestTEIProvider_EmbedQuery(t *testing.T) {
	srv := newTEIServer(t)

	provider, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL, Model: "BAAI/bge-small-en-v1.5"})
	require.NoError(t, err)

	vec, err := provider.EmbedQuery(context.Background(), "a query")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5}, vec)
}

func TestTEIProvider_Validation(t *testing.T) {
	provider, err := NewTEIProvider(TEIConfig{BaseURL: "http://localhost:1", Model: "m"})
	require.NoError(t, err)

	ctx := context.Background()

	_, err = provider.EmbedDocuments(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = provider.EmbedDocuments(ctx, []string{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = provider.EmbedDocuments(ctx, []string{"first", "", "third"})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = provider.EmbedQuery(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestTEIProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	provider, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL, Model: "m"})
	require.NoError(t, err)

	_, err = provider.EmbedQuery(context.Background(), "hello")
	require.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.Contains(t, err.Error(), "429")
}

func TestTEIProvider_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// One vector back for two texts.
		json.NewEncoder(w).Encode([][]float32{{1, 2}})
	}))
	t.Cleanup(srv.Close)

	provider, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL, Model: "m"})
	require.NoError(t, err)

	_, err = provider.EmbedDocuments(context.Background(), []string{"a", "b"})
	require.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.Contains(t, err.Error(), "2 texts")
}

func TestTEIProvider_AuthHeader(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([][]float32{{1}})
	}))
	t.Cleanup(srv.Close)

	provider, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL, Model: "m", APIKey: "tei-key"})
	require.NoError(t, err)

	_, err = provider.EmbedQuery(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tei-key", auth)
}
