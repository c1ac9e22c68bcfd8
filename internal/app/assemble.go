// Package app assembles pipeline components from configuration, shared by the
// CLI and server entrypoints.
package app

import (
	"fmt"
	"os"
	"time"

	"textsum/internal/chunker"
	"textsum/internal/config"
	"textsum/internal/embedding"
	"textsum/internal/evaluation"
	"textsum/internal/generation"
	"textsum/internal/pipeline"
	"textsum/internal/ranker"
)

// BuildSummarizer assembles a Summarizer from config. Build one per request:
// local embedders carry per-document state and must not be shared across
// concurrent summarizations.
func BuildSummarizer(cfg *config.AppConfig) (*pipeline.Summarizer, error) {
	var emb embedding.Oracle
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = embedding.NewTFIDF()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := embedding.NewOpenAIClient(embedding.OpenAIConfig{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init: %w", err)
		}
		emb = client
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var gen generation.Oracle
	switch cfg.Generator.Type {
	case "", "none":
	case "openai":
		// without an API key the generator stays nil and abstractive
		// requests are rejected at validation time
		if cfg.Generator.OpenAI != nil && os.Getenv(cfg.Generator.OpenAI.APIKeyEnv) != "" {
			client, err := generation.NewOpenAIClient(generation.OpenAIConfig{
				BaseURL:   cfg.Generator.OpenAI.BaseURL,
				APIKeyEnv: cfg.Generator.OpenAI.APIKeyEnv,
				Model:     cfg.Generator.OpenAI.Model,
				Timeout:   time.Duration(cfg.Generator.OpenAI.TimeoutSecs) * time.Second,
			})
			if err != nil {
				return nil, fmt.Errorf("openai generator init: %w", err)
			}
			gen = client
		}
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Generator.Type)
	}

	strategy, err := ranker.New(cfg.Ranker.Strategy, ranker.Config{
		RedundancyThreshold:  cfg.Ranker.RedundancyThreshold,
		UseDocumentEmbedding: cfg.Ranker.UseDocumentEmbedding,
	})
	if err != nil {
		return nil, err
	}

	ch, err := chunker.New(cfg.Chunker.MaxChunkTokens, cfg.Chunker.StrideTokens)
	if err != nil {
		return nil, err
	}

	return pipeline.New(emb, gen, strategy, ch, pipeline.Config{
		NumSentences:         cfg.Pipeline.NumSentences,
		MinLength:            cfg.Pipeline.MinLength,
		MaxLength:            cfg.Pipeline.MaxLength,
		UseDocumentEmbedding: cfg.Ranker.UseDocumentEmbedding,
	}), nil
}

// EvalConfig converts the yaml evaluation section into an evaluator config.
func EvalConfig(cfg *config.AppConfig) evaluation.Config {
	return evaluation.Config{Aggregation: evaluation.Aggregation(cfg.Evaluation.Aggregation)}
}
