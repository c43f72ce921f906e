package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryInstructionForModel(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  string
	}{
		{"bge english", "BAAI/bge-small-en-v1.5", bgeENQueryInstruction},
		{"bge base english", "BAAI/bge-base-en-v1.5", bgeENQueryInstruction},
		{"bge chinese", "BAAI/bge-small-zh-v1.5", bgeZHQueryInstruction},
		{"non-instruct model", "sentence-transformers/all-MiniLM-L6-v2", ""},
		{"unknown model", "some/custom-model", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, queryInstructionForModel(tt.model))
		})
	}
}

func TestFormatInstruction(t *testing.T) {
	tests := []struct {
		name        string
		instruction string
		text        string
		want        string
	}{
		{"with instruction", "Represent this:", "hello", "Represent this: hello"},
		{"empty instruction", "", "hello", "hello"},
		{"both empty", "", "", ""},
		{"whitespace text preserved inside", "prefix", "a  b", "prefix a  b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatInstruction(tt.instruction, tt.text))
		})
	}
}

func TestTextInstructionForModel(t *testing.T) {
	// BGE embeds documents without a prefix.
	assert.Empty(t, textInstructionForModel("BAAI/bge-small-en-v1.5"))
	assert.Empty(t, textInstructionForModel("any/model"))
}
