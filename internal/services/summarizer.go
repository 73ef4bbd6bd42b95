package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Lllllllleong/pdfsummarizer/internal/models"
	"github.com/Lllllllleong/pdfsummarizer/internal/summarize"
)

const pdfSuffix = ".pdf"

// TextExtractor turns PDF bytes into text.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) (string, error)
}

// SummarizerFunction runs the document-to-summary pipeline for one request:
// validate, extract, bound, summarize.
type SummarizerFunction struct {
	extractor TextExtractor
	strategy  summarize.Strategy
	logger    *slog.Logger
}

// NewSummarizer wires the pipeline. The strategy is fixed for the lifetime of
// the returned function.
func NewSummarizer(extractor TextExtractor, strategy summarize.Strategy, logger *slog.Logger) *SummarizerFunction {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummarizerFunction{
		extractor: extractor,
		strategy:  strategy,
		logger:    logger,
	}
}

func (f *SummarizerFunction) Strategy() summarize.Strategy { return f.strategy }

// Process summarizes one document. Every failure is returned as a *models.Error.
func (f *SummarizerFunction) Process(ctx context.Context, req *models.SummarizeRequest) (*models.SummarizeResponse, error) {
	start := time.Now()
	logCtx := f.logger.With("requestId", req.RequestID, "filename", req.Filename, "strategy", f.strategy.Name())

	if err := ValidateFilename(req.Filename); err != nil {
		logCtx.Warn("Rejected upload.", "reason", err.Message)
		return nil, err
	}

	logCtx = logCtx.With("fileHash", contentHash(req.Content), "sizeBytes", len(req.Content))
	logCtx.Info("Starting summarization.")

	text, err := f.extractor.Extract(ctx, req.Content)
	if err != nil {
		return nil, f.fail(logCtx, "Text extraction failed.", asKind(err, models.KindExtraction, "text extraction failed"))
	}

	maxLen := f.strategy.MaxInputLength()
	bounded := summarize.Truncate(text, maxLen)
	logCtx.Info("Text extracted.",
		"textChars", utf8.RuneCountInString(text),
		"boundedChars", utf8.RuneCountInString(bounded),
		"maxInputLength", maxLen,
	)

	summary, err := f.strategy.Summarize(ctx, bounded)
	if err != nil {
		return nil, f.fail(logCtx, "Summarization failed.", asKind(err, models.KindSummarization, "summarization failed"))
	}

	logCtx.Info("Summarization complete.", "summaryChars", utf8.RuneCountInString(summary), "duration", time.Since(start))
	return &models.SummarizeResponse{Summary: summary}, nil
}

// ValidateFilename accepts only non-empty names with a case-sensitive ".pdf" suffix.
func ValidateFilename(filename string) *models.Error {
	if filename == "" {
		return models.InvalidFormatError(models.MsgNoSelectedFile)
	}
	if !strings.HasSuffix(filename, pdfSuffix) {
		return models.InvalidFormatError(models.MsgInvalidFormat)
	}
	return nil
}

func (f *SummarizerFunction) fail(logCtx *slog.Logger, message string, err *models.Error) error {
	logCtx.Error(message, "kind", err.Kind, "error", err)
	return err
}

// asKind keeps categorized errors as they are and tags anything else.
func asKind(err error, kind models.ErrorKind, message string) *models.Error {
	var e *models.Error
	if errors.As(err, &e) {
		return e
	}
	return models.NewError(kind, message, err)
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
