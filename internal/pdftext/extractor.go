package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lllllllleong/pdfsummarizer/internal/models"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Extractor turns PDF bytes into one string of page text, in page order.
type Extractor struct {
	validate      bool
	pageSeparator string
	logger        *slog.Logger
}

type Option func(*Extractor)

// WithValidation enables the pdfcpu structural check before text extraction.
func WithValidation(enabled bool) Option {
	return func(e *Extractor) { e.validate = enabled }
}

// WithPageSeparator sets the string written between consecutive non-empty pages.
func WithPageSeparator(sep string) Option {
	return func(e *Extractor) { e.pageSeparator = sep }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// NewExtractor creates an extractor. By default pages are joined with "\n"
// and no structural validation runs.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		pageSeparator: "\n",
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the concatenated text of every page. A document without
// pages, or whose pages carry no text, yields "" and no error.
func (e *Extractor) Extract(ctx context.Context, content []byte) (text string, err error) {
	if len(content) == 0 {
		return "", models.ExtractionError("empty PDF content", nil)
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = models.ExtractionError("PDF parser fault", fmt.Errorf("%v", r))
		}
	}()

	if e.validate {
		if err := validatePDF(content); err != nil {
			return "", models.ExtractionError("invalid PDF structure", err)
		}
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", models.ExtractionError("failed to open PDF", err)
	}

	pageCount := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return "", models.ExtractionError("extraction cancelled", err)
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			e.logger.Debug("Skipping null page object.", "page", i)
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", models.ExtractionError(fmt.Sprintf("failed to extract text from page %d", i), err)
		}
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(e.pageSeparator)
		}
		sb.WriteString(pageText)
	}

	e.logger.Debug("Extracted PDF text.", "pageCount", pageCount, "textLength", sb.Len())
	return sb.String(), nil
}

// validatePDF runs pdfcpu's relaxed validation, which catches broken xref
// tables and encrypted documents before text extraction.
func validatePDF(content []byte) error {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return api.Validate(bytes.NewReader(content), cfg)
}
