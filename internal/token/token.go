// Package token provides the word tokenization shared by the chunker, the
// TF-IDF embedder and the ROUGE evaluator.
package token

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+(?:[.,]\p{N}+)*`)

// Words returns lowercased word tokens: letter runs (with internal
// apostrophes) and number runs (with internal decimal separators).
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// Count approximates the token count of text as its whitespace-separated
// field count. Approximate with respect to any model tokenizer, but monotone:
// more text never yields a smaller count.
func Count(text string) int {
	return len(strings.Fields(text))
}
