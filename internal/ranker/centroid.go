package ranker

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"textsum/internal/domain"
)

// Centroid scores sentences by cosine similarity to the document centroid and
// greedily selects the best-scoring non-redundant ones, reordered by original
// position. Deterministic for fixed embeddings and threshold.
type Centroid struct {
	cfg Config
}

func NewCentroid(cfg Config) *Centroid {
	if cfg.RedundancyThreshold == 0 {
		cfg.RedundancyThreshold = DefaultRedundancyThreshold
	}
	return &Centroid{cfg: cfg}
}

func (c *Centroid) Name() string { return "centroid" }

func (c *Centroid) Rank(sentences []domain.Sentence, embeddings [][]float64, docEmbedding []float64, numSentences int) (domain.Summary, error) {
	if numSentences <= 0 {
		return domain.Summary{}, fmt.Errorf("%w: num_sentences must be >= 1, got %d", domain.ErrInvalidParameter, numSentences)
	}
	if len(sentences) == 0 {
		return domain.Summary{}, domain.ErrEmptyInput
	}
	if len(embeddings) != len(sentences) {
		return domain.Summary{}, fmt.Errorf("%w: %d sentences but %d embeddings", domain.ErrInvalidParameter, len(sentences), len(embeddings))
	}

	if numSentences >= len(sentences) {
		// no-op compression: the whole document in original order
		selected := make([]int, len(sentences))
		for i := range selected {
			selected[i] = i
		}
		return c.assemble(sentences, selected), nil
	}

	centroid := docEmbedding
	if !c.cfg.UseDocumentEmbedding || centroid == nil {
		centroid = mean(embeddings)
	}

	scores := make([]float64, len(sentences))
	for i, vec := range embeddings {
		scores[i] = cosine(vec, centroid)
	}

	// descending score, index ascending on ties
	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	var selected []int
	for _, cand := range order {
		if len(selected) == numSentences {
			break
		}
		if c.redundant(embeddings, cand, selected) {
			continue
		}
		selected = append(selected, cand)
	}
	sort.Ints(selected)
	return c.assemble(sentences, selected), nil
}

func (c *Centroid) assemble(sentences []domain.Sentence, selected []int) domain.Summary {
	parts := make([]string, len(selected))
	indices := make([]int, len(selected))
	for i, idx := range selected {
		parts[i] = sentences[idx].Text
		indices[i] = sentences[idx].Index
	}
	return domain.Summary{
		Text:                  strings.Join(parts, " "),
		Mode:                  domain.ModeExtractive,
		SourceSentenceIndices: indices,
	}
}

func (c *Centroid) redundant(embeddings [][]float64, cand int, selected []int) bool {
	for _, s := range selected {
		if cosine(embeddings[cand], embeddings[s]) > c.cfg.RedundancyThreshold {
			return true
		}
	}
	return false
}

func mean(vectors [][]float64) []float64 {
	out := make([]float64, len(vectors[0]))
	for _, vec := range vectors {
		for i, v := range vec {
			out[i] += v
		}
	}
	n := float64(len(vectors))
	for i := range out {
		out[i] /= n
	}
	return out
}

// cosine returns the cosine similarity of a and b, 0 for zero vectors.
func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
