// Package segment provides sentence segmentation for flashcard context
// capture. The splitter is an interface so the punctuation heuristic can be
// replaced or tested independently; the documented fallback when no sentence
// boundary is found is the whole text.
package segment

import (
	"regexp"
	"strings"
)

// SentenceSplitter splits running text into sentences.
type SentenceSplitter interface {
	// Sentences returns the sentences of text in order. Implementations
	// must return at least one element for non-empty input; if no boundary
	// can be found the whole text is returned as a single sentence.
	Sentences(text string) []string
}

// sentencePattern matches runs of text terminated by ., ! or ?.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// RegexSplitter is the default SentenceSplitter: a punctuation heuristic
// that treats ., ! and ? as sentence terminators. Good enough for extracted
// exam passages; not a general-purpose segmenter.
type RegexSplitter struct{}

// NewRegexSplitter creates the default punctuation-based splitter.
func NewRegexSplitter() *RegexSplitter {
	return &RegexSplitter{}
}

// Sentences implements SentenceSplitter.
func (s *RegexSplitter) Sentences(text string) []string {
	matches := sentencePattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}
	return matches
}

// SentenceContaining returns the first sentence of text that contains the
// span, trimmed. When no sentence contains the span the span itself is
// returned, so a card always carries some context.
func SentenceContaining(splitter SentenceSplitter, text, span string) string {
	for _, sentence := range splitter.Sentences(text) {
		if strings.Contains(sentence, span) {
			return strings.TrimSpace(sentence)
		}
	}
	return strings.TrimSpace(span)
}
