package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/Lllllllleong/pdfsummarizer/internal/models"
)

// ObjectReader fetches a Cloud Storage object.
type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, object string) ([]byte, error)
}

// ObjectSummarizerFunction summarizes PDFs uploaded to a bucket. The summary is
// written to the structured log only.
type ObjectSummarizerFunction struct {
	reader     ObjectReader
	summarizer *SummarizerFunction
	logger     *slog.Logger
}

func NewObjectSummarizer(reader ObjectReader, summarizer *SummarizerFunction, logger *slog.Logger) *ObjectSummarizerFunction {
	if logger == nil {
		logger = slog.Default()
	}
	return &ObjectSummarizerFunction{
		reader:     reader,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Process handles one object finalize event. Objects that are not PDFs are
// skipped and reported as (nil, nil).
func (f *ObjectSummarizerFunction) Process(ctx context.Context, e models.GCSEvent, requestID string) (*models.SummarizeResponse, error) {
	logCtx := f.logger.With("requestId", requestID, "gcsBucket", e.Bucket, "gcsObject", e.Name)
	logCtx.Info("Processing new GCS object.")

	filename := path.Base(e.Name)
	if e.Name == "" || ValidateFilename(filename) != nil {
		logCtx.Info("Object is not a PDF. Skipping.")
		return nil, nil
	}

	content, err := f.reader.ReadObject(ctx, e.Bucket, e.Name)
	if err != nil {
		logCtx.Error("Failed to download source PDF", "error", err)
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", e.Bucket, e.Name, err)
	}

	res, err := f.summarizer.Process(ctx, &models.SummarizeRequest{
		RequestID: requestID,
		Filename:  filename,
		Content:   content,
	})
	if err != nil {
		return nil, err
	}

	logCtx.Info("Object summarized.", "summary", res.Summary)
	return res, nil
}
