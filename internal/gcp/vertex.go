package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/pdfsummarizer/internal/summarize"
	"google.golang.org/api/option"
)

const DefaultVertexModel = "gemini-1.5-flash"

// VertexConfig locates and sizes the Gemini model used for summaries.
type VertexConfig struct {
	ProjectID      string
	Region         string
	ModelName      string
	MaxInputTokens int
	SystemPrompt   string
}

// VertexModel is a summarize.Model backed by a Vertex AI generative model.
type VertexModel struct {
	name           string
	maxInputTokens int
	model          *genai.GenerativeModel
	baseClient     *genai.Client
}

// NewVertexModel creates the client, configures the summarizer model and
// probes it once with a token count so an unreachable model fails at load.
func NewVertexModel(ctx context.Context, cfg VertexConfig, opts ...option.ClientOption) (*VertexModel, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("NewVertexModel: projectID and region cannot be empty")
	}
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultVertexModel
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = summarize.SystemPrompt(summarize.DefaultBounds)
	}

	baseClient, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region, opts...)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := baseClient.GenerativeModel(cfg.ModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(cfg.SystemPrompt)},
	}

	if _, err := model.CountTokens(ctx, genai.Text("ping")); err != nil {
		_ = baseClient.Close()
		return nil, fmt.Errorf("model %s is not reachable: %w", cfg.ModelName, err)
	}

	return &VertexModel{
		name:           cfg.ModelName,
		maxInputTokens: cfg.MaxInputTokens,
		model:          model,
		baseClient:     baseClient,
	}, nil
}

func (m *VertexModel) Name() string        { return m.name }
func (m *VertexModel) MaxInputTokens() int { return m.maxInputTokens }

// Generate runs one GenerateContent call. The shared model is copied so the
// per-call generation config never mutates state seen by other requests.
func (m *VertexModel) Generate(ctx context.Context, text string, bounds summarize.GenerationBounds) ([]string, error) {
	gm := *m.model
	gm.GenerationConfig = generationConfig(bounds)

	resp, err := gm.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content from gemini: %w", err)
	}
	return candidateTexts(resp), nil
}

func (m *VertexModel) Close() error {
	if m.baseClient != nil {
		return m.baseClient.Close()
	}
	return nil
}

func generationConfig(bounds summarize.GenerationBounds) genai.GenerationConfig {
	cfg := genai.GenerationConfig{
		CandidateCount:  genai.Ptr[int32](1),
		MaxOutputTokens: genai.Ptr(int32(bounds.MaxLength)),
	}
	if bounds.Deterministic {
		cfg.Temperature = genai.Ptr[float32](0.0)
	}
	return cfg
}

// candidateTexts returns the text of every candidate, in response order.
func candidateTexts(resp *genai.GenerateContentResponse) []string {
	if resp == nil {
		return nil
	}
	texts := make([]string, 0, len(resp.Candidates))
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		content := strings.TrimSpace(sb.String())
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		texts = append(texts, strings.TrimSpace(content))
	}
	return texts
}
