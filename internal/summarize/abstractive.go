package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lllllllleong/pdfsummarizer/internal/models"
	"golang.org/x/sync/semaphore"
)

// AbstractiveStrategy summarizes with the model held by a ModelHolder.
type AbstractiveStrategy struct {
	holder *ModelHolder
	bounds GenerationBounds
	slots  *semaphore.Weighted
	logger *slog.Logger
}

// NewAbstractive limits in-flight Generate calls to maxConcurrency.
func NewAbstractive(holder *ModelHolder, maxConcurrency int, logger *slog.Logger) *AbstractiveStrategy {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AbstractiveStrategy{
		holder: holder,
		bounds: DefaultBounds,
		slots:  semaphore.NewWeighted(int64(maxConcurrency)),
		logger: logger,
	}
}

func (s *AbstractiveStrategy) Name() string { return "abstractive" }

// MaxInputLength is 0 while no model is loaded.
func (s *AbstractiveStrategy) MaxInputLength() int {
	model, err := s.holder.Model()
	if err != nil {
		return 0
	}
	return model.MaxInputTokens() * CharsPerToken
}

func (s *AbstractiveStrategy) Bounds() GenerationBounds { return s.bounds }

// Summarize fails with ModelUnavailable unless the model is Ready. Blank text
// yields "" without invoking the model.
func (s *AbstractiveStrategy) Summarize(ctx context.Context, text string) (string, error) {
	model, err := s.holder.Model()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return "", models.SummarizationError("inference slot unavailable", err)
	}
	defer s.slots.Release(1)

	candidates, err := generate(ctx, model, text, s.bounds)
	if err != nil {
		s.logger.Error("Model invocation failed.", "model", model.Name(), "error", err)
		return "", models.SummarizationError("model invocation failed", err)
	}
	for _, candidate := range candidates {
		if summary := strings.TrimSpace(candidate); summary != "" {
			return summary, nil
		}
	}
	return "", models.SummarizationError("model returned no summary", errors.New("empty output"))
}

func generate(ctx context.Context, model Model, text string, bounds GenerationBounds) (candidates []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			candidates = nil
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()
	return model.Generate(ctx, text, bounds)
}
