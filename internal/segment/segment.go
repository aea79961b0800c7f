// Package segment provides sentence segmentation and token estimation for
// the chunking and indexing pipeline.
package segment

import (
	"strings"
	"unicode"
)

// Sentences splits text into an ordered list of sentences. A sentence ends at
// '.', '!', or '?' followed by whitespace or end of input. Whitespace-only
// spans are dropped.
func Sentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)
		if !isTerminator(r) {
			continue
		}
		// Consume any trailing terminators (e.g. "?!" or "...").
		for i+1 < len(runes) && isTerminator(runes[i+1]) {
			i++
			current.WriteRune(runes[i])
		}
		if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// TokenCount estimates the token count of text as its whitespace-delimited
// word count. This is the same proxy the indexer uses for budget accounting,
// so chunk budgets and context budgets agree.
func TokenCount(text string) int {
	return len(strings.Fields(text))
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
