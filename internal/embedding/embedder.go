package embedding

import "context"

// Kind tells the oracle whether it is embedding a single sentence or a whole
// document (used for the configurable document-centroid ranking variant).
type Kind string

const (
	KindSentence Kind = "sentence"
	KindDocument Kind = "document"
)

// Oracle converts free text into a dense numeric vector. Implementations may
// require a preparation phase over the corpus and must be deterministic for
// identical (model, text, kind).
type Oracle interface {
	Name() string
	Prepare(corpus []string) error
	Embed(ctx context.Context, text string, kind Kind) ([]float64, error)
}
