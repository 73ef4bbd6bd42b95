package summarize

import "fmt"

// Neither backend API exposes a minimum output length, so the lower bound is
// carried by the instruction.
const systemPromptTemplate = `You are a document summarizer. Summarize the text extracted from a PDF document.

Rules:
- Write between %d and %d tokens of plain prose.
- Keep only the main ideas and critical facts (names, dates, numbers).
- Do not add information that is not in the text.
- Reply with the summary only, without preambles or markdown fences.`

// SystemPrompt returns the default instruction for the given bounds.
func SystemPrompt(bounds GenerationBounds) string {
	return fmt.Sprintf(systemPromptTemplate, bounds.MinLength, bounds.MaxLength)
}
