package config

import (
	"log/slog"
	"testing"

	"github.com/Lllllllleong/pdfsummarizer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, StrategyExtractive, cfg.Strategy)
	assert.Equal(t, 10, cfg.MaxSentences)
	assert.Equal(t, 100000, cfg.ExtractiveMaxInputChars)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.True(t, cfg.ValidatePDF)
	assert.True(t, cfg.SeparatePDFPages)
	assert.Equal(t, BackendVertex, cfg.Model.Backend)
	assert.Equal(t, 1024, cfg.Model.MaxInputTokens)
	assert.Equal(t, 2, cfg.Model.MaxConcurrency)
	assert.Equal(t, "us-central1", cfg.GCP.VertexAIRegion)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SUMMARY_STRATEGY", "abstractive")
	t.Setenv("SUMMARY_MAX_SENTENCES", "3")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("PDF_SEPARATE_PAGES", "false")
	t.Setenv("MODEL_BACKEND", "openai")
	t.Setenv("MODEL_NAME", "gpt-4.1-nano")
	t.Setenv("MODEL_MAX_INPUT_TOKENS", "4096")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PROJECT_ID", "demo-project")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StrategyAbstractive, cfg.Strategy)
	assert.Equal(t, 3, cfg.MaxSentences)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.SeparatePDFPages)
	assert.Equal(t, BackendOpenAI, cfg.Model.Backend)
	assert.Equal(t, "gpt-4.1-nano", cfg.Model.Name)
	assert.Equal(t, 4096, cfg.Model.MaxInputTokens)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "demo-project", cfg.GCP.ProjectID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown strategy", "SUMMARY_STRATEGY", "generative"},
		{"unknown backend", "MODEL_BACKEND", "huggingface"},
		{"zero sentences", "SUMMARY_MAX_SENTENCES", "0"},
		{"negative input chars", "EXTRACTIVE_MAX_INPUT_CHARS", "-5"},
		{"zero concurrency", "MODEL_MAX_CONCURRENCY", "0"},
		{"not a number", "MAX_UPLOAD_BYTES", "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingCredentialsIsNotAnError(t *testing.T) {
	t.Setenv("SUMMARY_STRATEGY", "abstractive")
	t.Setenv("MODEL_BACKEND", "vertex")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.GCP.ProjectID)
}

func TestApplyManifest(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.NoError(t, cfg.ApplyManifest(&models.ModelManifest{
		Backend:        BackendOpenAI,
		Name:           "gpt-4.1-nano",
		MaxInputTokens: 2048,
	}))
	assert.Equal(t, BackendOpenAI, cfg.Model.Backend)
	assert.Equal(t, "gpt-4.1-nano", cfg.Model.Name)
	assert.Equal(t, 2048, cfg.Model.MaxInputTokens)
	assert.Empty(t, cfg.Model.SystemPrompt, "empty manifest fields keep the environment value")

	assert.NoError(t, cfg.ApplyManifest(nil))
	assert.Error(t, cfg.ApplyManifest(&models.ModelManifest{Backend: "local"}))
}
