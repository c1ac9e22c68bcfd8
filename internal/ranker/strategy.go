// Package ranker implements extractive sentence ranking strategies.
package ranker

import (
	"fmt"

	"textsum/internal/domain"
)

// Config tunes a ranking strategy.
type Config struct {
	// RedundancyThreshold skips a candidate sentence whose cosine similarity
	// to any already-selected sentence exceeds this value.
	RedundancyThreshold float64
	// UseDocumentEmbedding ranks against a whole-document embedding instead
	// of the mean of sentence embeddings. Chosen at configuration time.
	UseDocumentEmbedding bool
}

// DefaultRedundancyThreshold is applied when Config leaves the threshold zero.
const DefaultRedundancyThreshold = 0.9

// Strategy selects a representative subset of sentences. docEmbedding may be
// nil when the strategy is not configured to use it.
type Strategy interface {
	Name() string
	Rank(sentences []domain.Sentence, embeddings [][]float64, docEmbedding []float64, numSentences int) (domain.Summary, error)
}

// New returns the named strategy. Only "centroid" is implemented; further
// variants (graph-based ranking) register here.
func New(name string, cfg Config) (Strategy, error) {
	switch name {
	case "centroid", "":
		return NewCentroid(cfg), nil
	default:
		return nil, fmt.Errorf("%w: unknown ranking strategy %q", domain.ErrInvalidParameter, name)
	}
}
