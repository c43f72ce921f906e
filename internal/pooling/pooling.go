// Package pooling reduces token-level embedding matrices to single vectors.
//
// Hosted feature-extraction endpoints may return one vector per token instead
// of a pre-pooled sentence vector. This package implements the two standard
// reductions (CLS and attention-masked mean) plus L2 normalization, operating
// on plain [][]float32 so providers can share them.
package pooling

import (
	"errors"
	"fmt"
	"math"
)

// Strategy selects how token embeddings are reduced to a single vector.
type Strategy string

const (
	// CLS uses the embedding of the first token position.
	CLS Strategy = "cls"
	// Mean averages token embeddings, weighted by the attention mask.
	Mean Strategy = "mean"
)

// Sentinel errors for pooling operations.
var (
	// ErrUnknownStrategy indicates an unsupported pooling strategy.
	ErrUnknownStrategy = errors.New("unknown pooling strategy")

	// ErrEmptyMatrix indicates an empty token embedding matrix.
	ErrEmptyMatrix = errors.New("empty token embedding matrix")

	// ErrMaskLength indicates an attention mask that does not match the
	// number of token positions.
	ErrMaskLength = errors.New("attention mask length mismatch")
)

// maskFloor is the minimum mask weight sum, preventing division by zero
// when every position is masked out.
const maskFloor = 1e-9

// ParseStrategy validates a strategy name from config.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case CLS, Mean:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q (supported: cls, mean)", ErrUnknownStrategy, s)
	}
}

// Pool reduces a token embedding matrix to a single vector.
//
// tokens holds one embedding per token position. mask marks which positions
// carry real tokens (1) versus padding (0); a nil mask treats every position
// as real. Only Mean consults the mask.
func Pool(strategy Strategy, tokens [][]float32, mask []int) ([]float32, error) {
	if len(tokens) == 0 || len(tokens[0]) == 0 {
		return nil, ErrEmptyMatrix
	}

	switch strategy {
	case CLS:
		return clsPool(tokens), nil
	case Mean:
		return meanPool(tokens, mask)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// clsPool returns a copy of the first token's embedding.
func clsPool(tokens [][]float32) []float32 {
	out := make([]float32, len(tokens[0]))
	copy(out, tokens[0])
	return out
}

// meanPool averages token embeddings across positions, weighting each
// position by its attention mask so padding does not dilute the result.
func meanPool(tokens [][]float32, mask []int) ([]float32, error) {
	if mask != nil && len(mask) != len(tokens) {
		return nil, fmt.Errorf("%w: %d mask entries for %d tokens", ErrMaskLength, len(mask), len(tokens))
	}

	dim := len(tokens[0])
	sum := make([]float64, dim)
	var weight float64

	for i, tok := range tokens {
		if len(tok) != dim {
			return nil, fmt.Errorf("%w: token %d has %d dims, want %d", ErrEmptyMatrix, i, len(tok), dim)
		}
		w := 1.0
		if mask != nil {
			w = float64(mask[i])
		}
		if w == 0 {
			continue
		}
		for j, v := range tok {
			sum[j] += w * float64(v)
		}
		weight += w
	}

	if weight < maskFloor {
		weight = maskFloor
	}

	out := make([]float32, dim)
	for j := range sum {
		out[j] = float32(sum[j] / weight)
	}
	return out, nil
}

// Normalize scales a vector to unit L2 norm in place and returns it.
// Zero vectors are returned unchanged.
func Normalize(vec []float32) []float32 {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		return vec
	}
	norm := math.Sqrt(sumSq)
	for i, v := range vec {
		vec[i] = float32(float64(v) / norm)
	}
	return vec
}
