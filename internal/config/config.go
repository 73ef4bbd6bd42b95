package config

import (
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/pdfsummarizer/internal/models"
	"github.com/caarlos0/env/v11"
)

const (
	StrategyExtractive  = "extractive"
	StrategyAbstractive = "abstractive"

	BackendVertex = "vertex"
	BackendOpenAI = "openai"
)

// Config holds all configuration for the summarizer process.
type Config struct {
	Port     string     `env:"PORT" envDefault:"8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	Strategy                string `env:"SUMMARY_STRATEGY" envDefault:"extractive"`
	MaxSentences            int    `env:"SUMMARY_MAX_SENTENCES" envDefault:"10"`
	ExtractiveMaxInputChars int    `env:"EXTRACTIVE_MAX_INPUT_CHARS" envDefault:"100000"`

	MaxUploadBytes   int64 `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"`
	ValidatePDF      bool  `env:"PDF_VALIDATE" envDefault:"true"`
	SeparatePDFPages bool  `env:"PDF_SEPARATE_PAGES" envDefault:"true"`

	Model  ModelConfig `envPrefix:"MODEL_"`
	GCP    GCPConfig
	OpenAI OpenAIConfig `envPrefix:"OPENAI_"`
}

// ModelConfig selects and sizes the abstractive model.
type ModelConfig struct {
	Backend        string `env:"BACKEND" envDefault:"vertex"`
	Name           string `env:"NAME"`
	MaxInputTokens int    `env:"MAX_INPUT_TOKENS" envDefault:"1024"`
	MaxConcurrency int    `env:"MAX_CONCURRENCY" envDefault:"2"`
	ManifestURI    string `env:"MANIFEST_URI"`
	SystemPrompt   string `env:"SYSTEM_PROMPT"`
}

type GCPConfig struct {
	ProjectID      string `env:"PROJECT_ID"`
	VertexAIRegion string `env:"VERTEX_AI_REGION" envDefault:"us-central1"`
}

type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL"`
}

// Load reads the configuration from the environment and validates it.
// Missing credentials are not an error here: they surface later as a failed
// model load.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown enum values and non-positive sizes.
func (c *Config) Validate() error {
	switch c.Strategy {
	case StrategyExtractive, StrategyAbstractive:
	default:
		return fmt.Errorf("SUMMARY_STRATEGY must be %q or %q, got %q", StrategyExtractive, StrategyAbstractive, c.Strategy)
	}
	switch c.Model.Backend {
	case BackendVertex, BackendOpenAI:
	default:
		return fmt.Errorf("MODEL_BACKEND must be %q or %q, got %q", BackendVertex, BackendOpenAI, c.Model.Backend)
	}

	positive := []struct {
		name  string
		value int64
	}{
		{"SUMMARY_MAX_SENTENCES", int64(c.MaxSentences)},
		{"EXTRACTIVE_MAX_INPUT_CHARS", int64(c.ExtractiveMaxInputChars)},
		{"MAX_UPLOAD_BYTES", c.MaxUploadBytes},
		{"MODEL_MAX_INPUT_TOKENS", int64(c.Model.MaxInputTokens)},
		{"MODEL_MAX_CONCURRENCY", int64(c.Model.MaxConcurrency)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	return nil
}

// ApplyManifest overlays the non-empty fields of a model manifest onto the
// model settings. Values from the manifest win over the environment.
func (c *Config) ApplyManifest(m *models.ModelManifest) error {
	if m == nil {
		return nil
	}
	if m.Backend != "" {
		c.Model.Backend = m.Backend
	}
	if m.Name != "" {
		c.Model.Name = m.Name
	}
	if m.MaxInputTokens > 0 {
		c.Model.MaxInputTokens = m.MaxInputTokens
	}
	if m.SystemPrompt != "" {
		c.Model.SystemPrompt = m.SystemPrompt
	}
	return c.Validate()
}
