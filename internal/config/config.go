package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds connection details for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedding oracle.
type EmbedderConfig struct {
	Type   string        `yaml:"type"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// GeneratorConfig configures the generation oracle used by the abstractive
// path. Optional: without it only extractive summaries are available.
type GeneratorConfig struct {
	Type   string        `yaml:"type"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// RankerConfig configures the extractive ranking strategy.
type RankerConfig struct {
	Strategy             string  `yaml:"strategy"`
	RedundancyThreshold  float64 `yaml:"redundancy_threshold"`
	UseDocumentEmbedding bool    `yaml:"use_document_embedding"`
}

// ChunkerConfig configures how long documents are split into chunks.
type ChunkerConfig struct {
	MaxChunkTokens int `yaml:"max_chunk_tokens"`
	StrideTokens   int `yaml:"stride_tokens"`
}

// PipelineConfig holds request defaults.
type PipelineConfig struct {
	NumSentences int `yaml:"num_sentences"`
	MinLength    int `yaml:"min_length"`
	MaxLength    int `yaml:"max_length"`
}

// EvaluationConfig names the multi-reference aggregation policy explicitly.
type EvaluationConfig struct {
	Aggregation string `yaml:"aggregation"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Ranker     RankerConfig     `yaml:"ranker"`
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Server     ServerConfig     `yaml:"server"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/textsum/config.yaml.
// If neither exists, it writes defaults to ~/.config/textsum/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "textsum", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:   EmbedderConfig{Type: "tfidf"},
		Generator:  GeneratorConfig{Type: "openai", OpenAI: &OpenAIConfig{}},
		Ranker:     RankerConfig{Strategy: "centroid", RedundancyThreshold: 0.9},
		Chunker:    ChunkerConfig{MaxChunkTokens: 500, StrideTokens: 0},
		Pipeline:   PipelineConfig{NumSentences: 3, MinLength: 30, MaxLength: 150},
		Evaluation: EvaluationConfig{Aggregation: "max"},
		Server:     ServerConfig{Addr: ":8080"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Ranker.Strategy == "" {
		cfg.Ranker.Strategy = "centroid"
	}
	if cfg.Ranker.RedundancyThreshold == 0 {
		cfg.Ranker.RedundancyThreshold = 0.9
	}
	if cfg.Chunker.MaxChunkTokens == 0 {
		cfg.Chunker.MaxChunkTokens = 500
	}
	if cfg.Pipeline.NumSentences == 0 {
		cfg.Pipeline.NumSentences = 3
	}
	if cfg.Pipeline.MinLength == 0 {
		cfg.Pipeline.MinLength = 30
	}
	if cfg.Pipeline.MaxLength == 0 {
		cfg.Pipeline.MaxLength = 150
	}
	if cfg.Evaluation.Aggregation == "" {
		cfg.Evaluation.Aggregation = "max"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		applyOpenAIDefaults(cfg.Embedder.OpenAI, "text-embedding-3-small")
	}
	if cfg.Generator.Type == "openai" && cfg.Generator.OpenAI != nil {
		applyOpenAIDefaults(cfg.Generator.OpenAI, "gpt-4o-mini")
	}
}

func applyOpenAIDefaults(cfg *OpenAIConfig, model string) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Model == "" {
		cfg.Model = model
	}
	if cfg.TimeoutSecs == 0 {
		cfg.TimeoutSecs = 60
	}
}
