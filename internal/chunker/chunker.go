// Package chunker splits a document's sentences into token-bounded chunks
// without ever splitting a sentence.
package chunker

import (
	"fmt"

	"textsum/internal/domain"
	"textsum/internal/token"
)

// Chunker greedily accumulates consecutive sentences up to a token budget.
// When strideTokens > 0, each new chunk re-includes trailing sentences of the
// previous chunk totaling approximately that many tokens, so the next
// summarization pass keeps context across chunk boundaries.
type Chunker struct {
	maxTokens    int
	strideTokens int
}

func New(maxTokens, strideTokens int) (*Chunker, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("%w: max_chunk_tokens must be > 0, got %d", domain.ErrInvalidParameter, maxTokens)
	}
	if strideTokens < 0 {
		return nil, fmt.Errorf("%w: stride_tokens must be >= 0, got %d", domain.ErrInvalidParameter, strideTokens)
	}
	return &Chunker{maxTokens: maxTokens, strideTokens: strideTokens}, nil
}

// Chunk partitions sentences into chunks. A single sentence exceeding the
// budget becomes its own oversized chunk, reported as a warning.
func (c *Chunker) Chunk(sentences []domain.Sentence) ([]domain.Chunk, []domain.Warning, error) {
	if len(sentences) == 0 {
		return nil, nil, nil
	}
	counts := make([]int, len(sentences))
	for i, s := range sentences {
		counts[i] = token.Count(s.Text)
	}

	var chunks []domain.Chunk
	var warnings []domain.Warning
	i := 0
	for i < len(sentences) {
		start := i
		var cur []domain.Sentence
		tokens := 0
		for i < len(sentences) {
			tc := counts[i]
			if len(cur) == 0 && tc > c.maxTokens {
				// oversized sentence, keep whole
				cur = append(cur, sentences[i])
				tokens = tc
				warnings = append(warnings, domain.Warning{
					Code:    domain.WarnChunkOverflow,
					Message: fmt.Sprintf("sentence %d has %d tokens, exceeding the chunk budget of %d", sentences[i].Index, tc, c.maxTokens),
					Index:   sentences[i].Index,
				})
				i++
				break
			}
			if len(cur) > 0 && tokens+tc > c.maxTokens {
				break
			}
			cur = append(cur, sentences[i])
			tokens += tc
			i++
		}
		chunks = append(chunks, domain.Chunk{Sentences: cur, TokenCount: tokens})
		if i >= len(sentences) {
			break
		}
		if c.strideTokens > 0 {
			// back up over trailing sentences of this chunk, keeping the
			// next start strictly past the previous one
			k, overlap := i, 0
			for k-1 > start && overlap+counts[k-1] <= c.strideTokens {
				k--
				overlap += counts[k]
			}
			i = k
		}
	}
	return chunks, warnings, nil
}
