//go:build !cgo

package embeddings

import "context"

// ONNXRuntimeExists reports false when CGO is not available; the local
// provider cannot load the runtime regardless.
func ONNXRuntimeExists() bool {
	return false
}

// GetONNXLibraryPath returns "" when CGO is not available.
func GetONNXLibraryPath() string {
	return ""
}

// EnsureONNXRuntime returns an error when CGO is not available.
func EnsureONNXRuntime(_ context.Context) (string, error) {
	return "", ErrFastEmbedNotAvailable
}

// DownloadONNXRuntime returns an error when CGO is not available.
func DownloadONNXRuntime(_ context.Context, _ string) error {
	return ErrFastEmbedNotAvailable
}
