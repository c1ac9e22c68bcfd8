package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"textsum/internal/chunker"
	"textsum/internal/domain"
	"textsum/internal/embedding"
	"textsum/internal/ranker"
)

// fakeEmbedder returns a deterministic vector derived from the text.
type fakeEmbedder struct {
	calls    atomic.Int64
	failText string
}

func (f *fakeEmbedder) Name() string             { return "fake" }
func (f *fakeEmbedder) Prepare(_ []string) error { return nil }
func (f *fakeEmbedder) Embed(ctx context.Context, text string, _ embedding.Kind) ([]float64, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failText != "" && strings.Contains(text, f.failText) {
		return nil, fmt.Errorf("%w: synthetic failure", domain.ErrOracleUnavailable)
	}
	vec := make([]float64, 8)
	for i, r := range text {
		vec[(i+int(r))%8]++
	}
	return vec, nil
}

type fakeGenerator struct {
	calls  atomic.Int64
	output string
}

func (f *fakeGenerator) Name() string { return "fake" }
func (f *fakeGenerator) Generate(ctx context.Context, _ string, _, _ int) (string, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.output, nil
}

func newTestSummarizer(t *testing.T, emb *fakeEmbedder, gen *fakeGenerator, maxChunkTokens int) *Summarizer {
	t.Helper()
	strategy, err := ranker.New("centroid", ranker.Config{})
	if err != nil {
		t.Fatalf("ranker.New() error: %v", err)
	}
	ch, err := chunker.New(maxChunkTokens, 0)
	if err != nil {
		t.Fatalf("chunker.New() error: %v", err)
	}
	if gen == nil {
		return New(emb, nil, strategy, ch, Config{})
	}
	return New(emb, gen, strategy, ch, Config{})
}

func longText(sentences int) string {
	var b strings.Builder
	for i := 0; i < sentences; i++ {
		fmt.Fprintf(&b, "Sentence number %d talks about subject %d in detail. ", i, i%5)
	}
	return b.String()
}

func TestSummarizeValidationBeforeOracleCalls(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"empty text", Request{Text: "  ", Mode: domain.ModeExtractive}, domain.ErrEmptyInput},
		{"bad mode", Request{Text: "Some text.", Mode: "telepathic"}, domain.ErrInvalidParameter},
		{"negative num_sentences", Request{Text: "Some text.", Mode: domain.ModeExtractive, NumSentences: -1}, domain.ErrInvalidParameter},
		{"inverted length bounds", Request{Text: "Some text.", Mode: domain.ModeAbstractive, MinLength: 200, MaxLength: 100}, domain.ErrInvalidParameter},
		{"abstractive without generator", Request{Text: "Some text.", Mode: domain.ModeAbstractive}, domain.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emb := &fakeEmbedder{}
			s := newTestSummarizer(t, emb, nil, 500)
			_, err := s.Summarize(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if n := emb.calls.Load(); n != 0 {
				t.Fatalf("made %d oracle calls before validation failure", n)
			}
		})
	}
}

func TestExtractiveShortDocumentIsIdempotent(t *testing.T) {
	text := "The cat sat on the mat. The dog barked at the cat."
	s := newTestSummarizer(t, &fakeEmbedder{}, nil, 500)
	req := Request{Text: text, Mode: domain.ModeExtractive, NumSentences: 5}

	first, err := s.Summarize(context.Background(), req)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if first.Summary != text {
		t.Errorf("summary = %q, want whole document %q", first.Summary, text)
	}
	if !reflect.DeepEqual(first.Details.SourceSentenceIndices, []int{0, 1}) {
		t.Errorf("indices = %v, want [0 1]", first.Details.SourceSentenceIndices)
	}
	if first.Details.ChunkCount != 1 {
		t.Errorf("chunk count = %d, want 1", first.Details.ChunkCount)
	}

	second, err := s.Summarize(context.Background(), Request{Text: first.Summary, Mode: domain.ModeExtractive, NumSentences: 5})
	if err != nil {
		t.Fatalf("second Summarize() error: %v", err)
	}
	if second.Summary != first.Summary {
		t.Errorf("second pass changed the summary: %q vs %q", second.Summary, first.Summary)
	}
}

func TestExtractiveDeterministic(t *testing.T) {
	req := Request{Text: longText(20), Mode: domain.ModeExtractive, NumSentences: 3}
	s := newTestSummarizer(t, &fakeEmbedder{}, nil, 500)
	first, err := s.Summarize(context.Background(), req)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	second, err := s.Summarize(context.Background(), req)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if first.Summary != second.Summary || !reflect.DeepEqual(first.Details.SourceSentenceIndices, second.Details.SourceSentenceIndices) {
		t.Fatalf("repeated runs differ: %+v vs %+v", first, second)
	}
}

func TestExtractiveHierarchical(t *testing.T) {
	s := newTestSummarizer(t, &fakeEmbedder{}, nil, 20)
	resp, err := s.Summarize(context.Background(), Request{Text: longText(30), Mode: domain.ModeExtractive, NumSentences: 3})
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if resp.Details.ChunkCount < 2 {
		t.Fatalf("chunk count = %d, want > 1", resp.Details.ChunkCount)
	}
	if len(resp.Details.SourceSentenceIndices) == 0 || len(resp.Details.SourceSentenceIndices) > 3 {
		t.Fatalf("selected %d sentences, want 1..3", len(resp.Details.SourceSentenceIndices))
	}
	for i := 1; i < len(resp.Details.SourceSentenceIndices); i++ {
		if resp.Details.SourceSentenceIndices[i] <= resp.Details.SourceSentenceIndices[i-1] {
			t.Fatalf("indices not in document order: %v", resp.Details.SourceSentenceIndices)
		}
	}
}

func TestAbstractiveSinglePass(t *testing.T) {
	gen := &fakeGenerator{output: "A generated summary of the input."}
	s := newTestSummarizer(t, &fakeEmbedder{}, gen, 500)
	resp, err := s.Summarize(context.Background(), Request{Text: "A short document. It fits one chunk.", Mode: domain.ModeAbstractive, MinLength: 1, MaxLength: 150})
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if resp.Summary != gen.output {
		t.Errorf("summary = %q, want %q", resp.Summary, gen.output)
	}
	if n := gen.calls.Load(); n != 1 {
		t.Errorf("generator called %d times, want 1", n)
	}
	if len(resp.Details.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", resp.Details.Warnings)
	}
}

func TestAbstractiveHierarchical(t *testing.T) {
	gen := &fakeGenerator{output: "A condensed chunk summary."}
	s := newTestSummarizer(t, &fakeEmbedder{}, gen, 20)
	resp, err := s.Summarize(context.Background(), Request{Text: longText(30), Mode: domain.ModeAbstractive, MinLength: 1, MaxLength: 150})
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if resp.Details.ChunkCount < 2 {
		t.Fatalf("chunk count = %d, want > 1", resp.Details.ChunkCount)
	}
	// one call per chunk plus the combining pass
	if n := gen.calls.Load(); n != int64(resp.Details.ChunkCount)+1 {
		t.Errorf("generator called %d times, want %d", n, resp.Details.ChunkCount+1)
	}
	if resp.Summary != gen.output {
		t.Errorf("summary = %q, want %q", resp.Summary, gen.output)
	}
}

func TestAbstractiveLengthBoundWarning(t *testing.T) {
	gen := &fakeGenerator{output: "too short"}
	s := newTestSummarizer(t, &fakeEmbedder{}, gen, 500)
	resp, err := s.Summarize(context.Background(), Request{Text: "A document to summarize. It is brief.", Mode: domain.ModeAbstractive, MinLength: 30, MaxLength: 150})
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	found := false
	for _, w := range resp.Details.Warnings {
		if w.Code == domain.WarnLengthBound {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected length bound warning, got %v", resp.Details.Warnings)
	}
}

func TestOracleErrorCarriesUnitIndex(t *testing.T) {
	emb := &fakeEmbedder{failText: "poisoned"}
	s := newTestSummarizer(t, emb, nil, 500)
	text := "The first sentence is fine. The second is fine too. The poisoned one breaks. The last is fine."
	_, err := s.Summarize(context.Background(), Request{Text: text, Mode: domain.ModeExtractive})
	if err == nil {
		t.Fatal("expected error")
	}
	var oe *domain.OracleError
	if !errors.As(err, &oe) {
		t.Fatalf("error %v is not an OracleError", err)
	}
	if oe.Op != "embed" || oe.Unit != 2 {
		t.Errorf("OracleError = {Op: %q, Unit: %d}, want {embed, 2}", oe.Op, oe.Unit)
	}
	if !errors.Is(err, domain.ErrOracleUnavailable) {
		t.Errorf("error %v does not wrap ErrOracleUnavailable", err)
	}
}

func TestSummarizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestSummarizer(t, &fakeEmbedder{}, nil, 500)
	_, err := s.Summarize(ctx, Request{Text: "Some document. With sentences.", Mode: domain.ModeExtractive})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
