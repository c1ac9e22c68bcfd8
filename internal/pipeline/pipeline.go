// Package pipeline wires segmentation, chunking, ranking and the oracles into
// the document-to-summary flow.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"textsum/internal/chunker"
	"textsum/internal/domain"
	"textsum/internal/embedding"
	"textsum/internal/generation"
	"textsum/internal/ranker"
	"textsum/internal/segment"
	"textsum/internal/token"
)

// maxParallelOracleCalls bounds concurrent embedding/generation requests.
const maxParallelOracleCalls = 8

// Config holds request defaults and pipeline tuning.
type Config struct {
	NumSentences         int // extractive default, 3
	MinLength            int // abstractive default, 30
	MaxLength            int // abstractive default, 150
	UseDocumentEmbedding bool
}

// Request mirrors the external summarization contract.
type Request struct {
	Text         string      `json:"text"`
	Mode         domain.Mode `json:"mode"`
	NumSentences int         `json:"num_sentences,omitempty"`
	MaxLength    int         `json:"max_length,omitempty"`
	MinLength    int         `json:"min_length,omitempty"`
}

// Details accompanies a summary in the response.
type Details struct {
	SourceSentenceIndices []int            `json:"source_sentence_indices,omitempty"`
	ChunkCount            int              `json:"chunk_count"`
	Warnings              []domain.Warning `json:"warnings,omitempty"`
	Scores                domain.ScoreSet  `json:"scores,omitempty"`
}

// Response mirrors the external summarization contract.
type Response struct {
	Summary string      `json:"summary"`
	Mode    domain.Mode `json:"mode"`
	Details Details     `json:"details"`
}

// Summarizer owns one summarization pipeline. Oracles are passed in
// explicitly; the pipeline holds no ambient global state.
type Summarizer struct {
	embedder  embedding.Oracle
	generator generation.Oracle
	strategy  ranker.Strategy
	chunker   *chunker.Chunker
	cfg       Config
}

// New assembles a Summarizer. generator may be nil when only the extractive
// path is used.
func New(embedder embedding.Oracle, generator generation.Oracle, strategy ranker.Strategy, ch *chunker.Chunker, cfg Config) *Summarizer {
	if cfg.NumSentences == 0 {
		cfg.NumSentences = 3
	}
	if cfg.MinLength == 0 {
		cfg.MinLength = 30
	}
	if cfg.MaxLength == 0 {
		cfg.MaxLength = 150
	}
	return &Summarizer{embedder: embedder, generator: generator, strategy: strategy, chunker: ch, cfg: cfg}
}

// Summarize runs the full pipeline for one request. All validation happens
// before the first oracle call.
func (s *Summarizer) Summarize(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Response{}, fmt.Errorf("%w: no text", domain.ErrEmptyInput)
	}
	if !req.Mode.Valid() {
		return Response{}, fmt.Errorf("%w: mode must be %q or %q", domain.ErrInvalidParameter, domain.ModeExtractive, domain.ModeAbstractive)
	}
	numSentences := req.NumSentences
	if numSentences == 0 {
		numSentences = s.cfg.NumSentences
	}
	if numSentences < 1 {
		return Response{}, fmt.Errorf("%w: num_sentences must be >= 1, got %d", domain.ErrInvalidParameter, req.NumSentences)
	}
	maxLength := req.MaxLength
	if maxLength == 0 {
		maxLength = s.cfg.MaxLength
	}
	minLength := req.MinLength
	if minLength == 0 {
		minLength = s.cfg.MinLength
	}
	if maxLength < 1 || minLength < 0 || minLength > maxLength {
		return Response{}, fmt.Errorf("%w: length bounds [%d, %d]", domain.ErrInvalidParameter, req.MinLength, req.MaxLength)
	}
	if req.Mode == domain.ModeAbstractive && s.generator == nil {
		return Response{}, fmt.Errorf("%w: no generation oracle configured", domain.ErrInvalidParameter)
	}

	doc, segWarn, err := segment.Build(req.Text)
	if err != nil {
		return Response{}, err
	}
	var warnings []domain.Warning
	if segWarn != nil {
		warnings = append(warnings, *segWarn)
	}

	chunks, chunkWarns, err := s.chunker.Chunk(doc.Sentences)
	if err != nil {
		return Response{}, err
	}
	warnings = append(warnings, chunkWarns...)

	var summary domain.Summary
	switch req.Mode {
	case domain.ModeExtractive:
		summary, err = s.extractive(ctx, doc, chunks, numSentences)
	case domain.ModeAbstractive:
		summary, err = s.abstractive(ctx, doc, chunks, minLength, maxLength)
	}
	if err != nil {
		return Response{}, err
	}
	warnings = append(warnings, summary.Warnings...)

	return Response{
		Summary: summary.Text,
		Mode:    req.Mode,
		Details: Details{
			SourceSentenceIndices: summary.SourceSentenceIndices,
			ChunkCount:            len(chunks),
			Warnings:              warnings,
		},
	}, nil
}

// extractive embeds every sentence once, ranks each chunk against the
// memoized vectors (pass 1), then ranks the union of the per-chunk selections
// (pass 2). A document fitting one chunk skips pass 2.
func (s *Summarizer) extractive(ctx context.Context, doc domain.Document, chunks []domain.Chunk, numSentences int) (domain.Summary, error) {
	texts := make([]string, len(doc.Sentences))
	for i, sent := range doc.Sentences {
		texts[i] = sent.Text
	}
	if err := s.embedder.Prepare(texts); err != nil {
		return domain.Summary{}, fmt.Errorf("prepare embedder: %w", err)
	}

	embeddings, err := s.embedSentences(ctx, doc.Sentences)
	if err != nil {
		return domain.Summary{}, err
	}
	var docEmbedding []float64
	if s.cfg.UseDocumentEmbedding {
		docEmbedding, err = s.embedder.Embed(ctx, doc.Text, embedding.KindDocument)
		if err != nil {
			return domain.Summary{}, &domain.OracleError{Op: "embed", Unit: -1, Err: err}
		}
	}

	if len(chunks) <= 1 {
		return s.strategy.Rank(doc.Sentences, embeddings, docEmbedding, numSentences)
	}

	// pass 1: rank each chunk in isolation, vectors looked up by index
	selected := make(map[int]struct{})
	for _, ch := range chunks {
		chunkEmbs := make([][]float64, len(ch.Sentences))
		for i, sent := range ch.Sentences {
			chunkEmbs[i] = embeddings[sent.Index]
		}
		part, err := s.strategy.Rank(ch.Sentences, chunkEmbs, docEmbedding, numSentences)
		if err != nil {
			return domain.Summary{}, err
		}
		for _, idx := range part.SourceSentenceIndices {
			selected[idx] = struct{}{}
		}
	}

	// pass 2: rank the concatenation of the per-chunk selections
	indices := make([]int, 0, len(selected))
	for idx := range selected {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	subset := make([]domain.Sentence, len(indices))
	subsetEmbs := make([][]float64, len(indices))
	for i, idx := range indices {
		subset[i] = doc.Sentences[idx]
		subsetEmbs[i] = embeddings[idx]
	}
	return s.strategy.Rank(subset, subsetEmbs, docEmbedding, numSentences)
}

// abstractive generates a summary per chunk concurrently (pass 1), then
// summarizes the concatenation (pass 2). A document fitting one chunk is
// generated in a single pass.
func (s *Summarizer) abstractive(ctx context.Context, doc domain.Document, chunks []domain.Chunk, minLength, maxLength int) (domain.Summary, error) {
	if len(chunks) <= 1 {
		return s.generate(ctx, doc.Text, -1, minLength, maxLength)
	}
	parts := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelOracleCalls)
	for i, ch := range chunks {
		i, ch := i, ch
		g.Go(func() error {
			out, err := s.generator.Generate(gctx, ch.Text(), minLength, maxLength)
			if err != nil {
				return &domain.OracleError{Op: "generate", Unit: i, Err: err}
			}
			parts[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Summary{}, err
	}
	return s.generate(ctx, strings.Join(parts, " "), -1, minLength, maxLength)
}

func (s *Summarizer) generate(ctx context.Context, text string, unit, minLength, maxLength int) (domain.Summary, error) {
	out, err := s.generator.Generate(ctx, text, minLength, maxLength)
	if err != nil {
		return domain.Summary{}, &domain.OracleError{Op: "generate", Unit: unit, Err: err}
	}
	summary := domain.Summary{Text: out, Mode: domain.ModeAbstractive}
	if tc := token.Count(out); tc < minLength || tc > maxLength {
		summary.Warnings = append(summary.Warnings, domain.Warning{
			Code:    domain.WarnLengthBound,
			Message: fmt.Sprintf("generated summary has %d tokens, outside the requested bounds [%d, %d]", tc, minLength, maxLength),
			Index:   -1,
		})
	}
	return summary, nil
}

// embedSentences requests all sentence vectors concurrently and re-associates
// the results by index, so completion order never affects ranking.
func (s *Summarizer) embedSentences(ctx context.Context, sentences []domain.Sentence) ([][]float64, error) {
	embeddings := make([][]float64, len(sentences))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelOracleCalls)
	for i, sent := range sentences {
		i, sent := i, sent
		g.Go(func() error {
			vec, err := s.embedder.Embed(gctx, sent.Text, embedding.KindSentence)
			if err != nil {
				return &domain.OracleError{Op: "embed", Unit: i, Err: err}
			}
			embeddings[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return embeddings, nil
}
