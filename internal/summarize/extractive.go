package summarize

import (
	"context"
	"regexp"
	"strings"
)

const (
	DefaultMaxSentences = 10
	bulletPrefix        = "• "
)

// A sentence ends at '.', '!' or '?' followed by whitespace. RE2's \s is
// ASCII only, so vertical tab, NEL, the file/group/record/unit separators and
// the Unicode separators (NBSP, em space, ...) are listed explicitly.
var sentenceBoundary = regexp.MustCompile(`[.!?][\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+`)

// ExtractiveStrategy summarizes by keeping the leading sentences verbatim.
type ExtractiveStrategy struct {
	maxSentences   int
	maxInputLength int
}

func NewExtractive(maxSentences, maxInputLength int) *ExtractiveStrategy {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	return &ExtractiveStrategy{
		maxSentences:   maxSentences,
		maxInputLength: maxInputLength,
	}
}

func (s *ExtractiveStrategy) Name() string { return "extractive" }

func (s *ExtractiveStrategy) MaxInputLength() int { return s.maxInputLength }

// Summarize never fails. It returns up to maxSentences bullet lines joined by
// "\n"; text without sentences yields "".
func (s *ExtractiveStrategy) Summarize(_ context.Context, text string) (string, error) {
	sentences := SplitSentences(text)
	if len(sentences) > s.maxSentences {
		sentences = sentences[:s.maxSentences]
	}
	return FormatBullets(sentences), nil
}

// SplitSentences splits text after each '.', '!' or '?' that is followed by
// whitespace, dropping the whitespace. Empty pieces are discarded.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		sentences = appendNonEmpty(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	return appendNonEmpty(sentences, text[start:])
}

// FormatBullets renders one bullet line per sentence.
func FormatBullets(sentences []string) string {
	var sb strings.Builder
	for i, sentence := range sentences {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(bulletPrefix)
		sb.WriteString(sentence)
	}
	return sb.String()
}

func appendNonEmpty(sentences []string, s string) []string {
	if strings.TrimSpace(s) == "" {
		return sentences
	}
	return append(sentences, s)
}
