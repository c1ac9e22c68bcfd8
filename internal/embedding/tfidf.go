package embedding

import (
	"context"
	"math"
	"sort"

	"textsum/internal/domain"
	"textsum/internal/token"
)

// TFIDF implements Oracle with a local TF-IDF vectorizer. It builds a
// vocabulary from the prepared corpus and computes smoothed IDF values, so
// embeddings are deterministic and require no network access.
type TFIDF struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
	stopwords  map[string]struct{}
}

func NewTFIDF() *TFIDF {
	return &TFIDF{
		vocabulary: make(map[string]int),
		stopwords:  defaultStopwords(),
	}
}

func (e *TFIDF) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF table from the corpus, normally the
// sentences of the document being summarized.
func (e *TFIDF) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return domain.ErrEmptyInput
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Stable ordering for the vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Embed returns the L2-normalized TF-IDF vector of text. The kind is ignored:
// documents and sentences share the same vector space.
func (e *TFIDF) Embed(_ context.Context, text string, _ Kind) ([]float64, error) {
	if !e.prepared {
		return nil, domain.ErrInvalidParameter
	}
	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		tfv := float64(count) / float64(total)
		vec[idx] = tfv * e.idf[idx]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

func (e *TFIDF) tokenize(text string) []string {
	raw := token.Words(text)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
