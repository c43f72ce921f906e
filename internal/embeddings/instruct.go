package embeddings

import "strings"

// Retrieval-tuned model families expect an instruction prefix on the query
// side but embed documents bare. The values below are the instructions the
// model authors trained with; overriding them degrades retrieval quality.
const (
	bgeENQueryInstruction = "Represent this sentence for searching relevant passages:"
	bgeZHQueryInstruction = "为这个句子生成表示以用于检索相关文章："
)

// queryInstructionForModel returns the default query instruction for a model.
// Models without a known instruction return "".
func queryInstructionForModel(model string) string {
	name := strings.ToLower(model)
	switch {
	case strings.Contains(name, "bge") && strings.Contains(name, "zh"):
		return bgeZHQueryInstruction
	case strings.Contains(name, "bge"):
		return bgeENQueryInstruction
	default:
		return ""
	}
}

// textInstructionForModel returns the default document instruction for a
// model. BGE models embed documents without a prefix.
func textInstructionForModel(model string) string {
	return ""
}

// formatInstruction prepends an instruction to text, collapsing to the bare
// text when the instruction is empty.
func formatInstruction(instruction, text string) string {
	return strings.TrimSpace(instruction + " " + text)
}
