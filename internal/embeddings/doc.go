// Package embeddings provides embedding generation via multiple providers.
//
// Every provider satisfies the Provider interface: the Embedder methods from
// vectorstore (EmbedDocuments, EmbedQuery) plus Dimension and Close. Use
// NewProvider to construct one from configuration:
//
//	provider, err := embeddings.NewProvider(embeddings.ProviderConfig{
//	    Provider: "fastembed",
//	    Model:    "BAAI/bge-small-en-v1.5",
//	})
//
// Available providers:
//
//   - fastembed: local ONNX models via fastembed-go. Tokenization, pooling
//     and normalization happen inside the library. Requires CGO and the
//     ONNX runtime (see EnsureONNXRuntime).
//   - inference: hosted feature-extraction API. One request per text, fanned
//     out concurrently. If the endpoint returns token-level matrices the
//     configured pooling strategy is applied client-side.
//   - tei: Text Embeddings Inference server. Batch /embed endpoint with
//     server-side pooling.
//   - openai: OpenAI-compatible /v1/embeddings endpoint via langchaingo.
//
// Results are always one vector per input text, in input order.
package embeddings
