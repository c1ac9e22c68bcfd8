// Package generation defines the abstractive summarization oracle and its
// OpenAI-compatible implementation.
package generation

import "context"

// Oracle produces generated text for an input, bounded by a token budget.
// The bounds are best-effort: underlying generation is not deterministic in
// length, so violations are reported as warnings by the caller, not errors.
type Oracle interface {
	Name() string
	Generate(ctx context.Context, text string, minTokens, maxTokens int) (string, error)
}
