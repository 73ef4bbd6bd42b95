package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lllllllleong/pdfsummarizer/internal/summarize"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultOpenAIModel = string(openai.ChatModelGPT4_1Mini)

	// Fixed so that repeated requests for the same text decode the same way.
	deterministicSeed = 0
)

// OpenAIConfig contains configuration for the OpenAI-backed model.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	ModelName      string
	MaxInputTokens int
	SystemPrompt   string
}

// OpenAIModel is a summarize.Model backed by the Chat Completions API.
type OpenAIModel struct {
	client         openai.Client
	name           string
	maxInputTokens int
	systemPrompt   string
}

// NewOpenAIModel builds the client and checks that the model exists. The SDK's
// own retries are disabled: every request gets a single attempt.
func NewOpenAIModel(ctx context.Context, cfg OpenAIConfig) (*OpenAIModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultOpenAIModel
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = summarize.SystemPrompt(summarize.DefaultBounds)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	if _, err := client.Models.Get(ctx, cfg.ModelName); err != nil {
		return nil, fmt.Errorf("model %s is not available: %w", cfg.ModelName, err)
	}

	return &OpenAIModel{
		client:         client,
		name:           cfg.ModelName,
		maxInputTokens: cfg.MaxInputTokens,
		systemPrompt:   cfg.SystemPrompt,
	}, nil
}

func (m *OpenAIModel) Name() string        { return m.name }
func (m *OpenAIModel) MaxInputTokens() int { return m.maxInputTokens }

// Generate asks for a single completion within the given bounds.
func (m *OpenAIModel) Generate(ctx context.Context, text string, bounds summarize.GenerationBounds) ([]string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(m.name),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(m.systemPrompt),
			openai.UserMessage("Content:\n" + text),
		},
		MaxCompletionTokens: openai.Int(int64(bounds.MaxLength)),
		N:                   openai.Int(1),
	}
	if bounds.Deterministic {
		params.Temperature = openai.Float(0)
		params.Seed = openai.Int(deterministicSeed)
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}

	candidates := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		candidates = append(candidates, strings.TrimSpace(choice.Message.Content))
	}
	return candidates, nil
}
