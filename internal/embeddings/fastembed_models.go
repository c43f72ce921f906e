package embeddings

// fastEmbedDimensions maps supported local model names (both HuggingFace
// repo names and fastembed's own identifiers) to embedding dimensions.
// Shared between CGO and non-CGO builds.
var fastEmbedDimensions = map[string]int{
	"BAAI/bge-small-en-v1.5":                 384,
	"BAAI/bge-small-en":                      384,
	"BAAI/bge-base-en-v1.5":                  768,
	"BAAI/bge-base-en":                       768,
	"BAAI/bge-small-zh-v1.5":                 512,
	"sentence-transformers/all-MiniLM-L6-v2": 384,
	"fast-bge-small-en-v1.5":                 384,
	"fast-bge-small-en":                      384,
	"fast-bge-base-en-v1.5":                  768,
	"fast-bge-base-en":                       768,
	"fast-bge-small-zh-v1.5":                 512,
	"fast-all-MiniLM-L6-v2":                  384,
}

// fastEmbedModelDimension returns the dimension for a known local model.
func fastEmbedModelDimension(model string) (int, bool) {
	dim, ok := fastEmbedDimensions[model]
	return dim, ok
}
