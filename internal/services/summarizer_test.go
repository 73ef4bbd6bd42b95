package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/Lllllllleong/pdfsummarizer/internal/models"
	"github.com/Lllllllleong/pdfsummarizer/internal/summarize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
	seen  []byte
}

func (e *fakeExtractor) Extract(_ context.Context, content []byte) (string, error) {
	e.calls++
	e.seen = content
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

// recordingStrategy wraps a strategy and remembers what it was asked to summarize.
type recordingStrategy struct {
	summarize.Strategy
	maxCalls int
	inputs   []string
}

func (s *recordingStrategy) MaxInputLength() int {
	s.maxCalls++
	return s.Strategy.MaxInputLength()
}

func (s *recordingStrategy) Summarize(ctx context.Context, text string) (string, error) {
	s.inputs = append(s.inputs, text)
	return s.Strategy.Summarize(ctx, text)
}

func TestProcess_InvalidFilenames(t *testing.T) {
	tests := []struct {
		filename string
		wantMsg  string
	}{
		{filename: "", wantMsg: models.MsgNoSelectedFile},
		{filename: "report.PDF", wantMsg: models.MsgInvalidFormat},
		{filename: "report.txt", wantMsg: models.MsgInvalidFormat},
		{filename: "report.pdf.zip", wantMsg: models.MsgInvalidFormat},
		{filename: "pdf", wantMsg: models.MsgInvalidFormat},
		{filename: "report.Pdf", wantMsg: models.MsgInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.filename), func(t *testing.T) {
			ext := &fakeExtractor{text: "ignored."}
			f := NewSummarizer(ext, summarize.NewExtractive(10, 100), nil)

			res, err := f.Process(context.Background(), &models.SummarizeRequest{
				Filename: tt.filename,
				Content:  []byte("%PDF-1.4 whatever"),
			})
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, models.IsKind(err, models.KindInvalidFormat))

			var e *models.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.wantMsg, e.Message)
			assert.Zero(t, ext.calls, "extraction must not run for invalid filenames")
		})
	}
}

func TestProcess_ExtractiveSuccess(t *testing.T) {
	ext := &fakeExtractor{text: "Alpha runs fast. Beta jumps high! Gamma swims well?"}
	f := NewSummarizer(ext, summarize.NewExtractive(2, 1000), nil)

	content := []byte("pdf bytes")
	res, err := f.Process(context.Background(), &models.SummarizeRequest{
		RequestID: "req-1",
		Filename:  "animals.pdf",
		Content:   content,
	})
	require.NoError(t, err)
	assert.Equal(t, "• Alpha runs fast.\n• Beta jumps high!", res.Summary)
	assert.Equal(t, content, ext.seen)
}

func TestProcess_TruncatesToStrategyMaximum(t *testing.T) {
	ext := &fakeExtractor{text: "Alpha runs fast. Beta jumps high! Gamma swims well?"}
	strategy := &recordingStrategy{Strategy: summarize.NewExtractive(10, 20)}
	f := NewSummarizer(ext, strategy, nil)

	res, err := f.Process(context.Background(), &models.SummarizeRequest{Filename: "a.pdf", Content: []byte("x")})
	require.NoError(t, err)

	require.Len(t, strategy.inputs, 1)
	assert.Equal(t, "Alpha runs fast. Bet", strategy.inputs[0])
	assert.LessOrEqual(t, utf8.RuneCountInString(strategy.inputs[0]), 20)
	assert.Equal(t, "• Alpha runs fast.\n• Bet", res.Summary)

	_, err = f.Process(context.Background(), &models.SummarizeRequest{Filename: "b.pdf", Content: []byte("y")})
	require.NoError(t, err)
	assert.Equal(t, 2, strategy.maxCalls, "maximum is queried per request")
}

func TestProcess_ExtractionErrorPropagatesUnchanged(t *testing.T) {
	cause := models.ExtractionError("failed to open PDF", errors.New("malformed PDF: missing startxref"))
	ext := &fakeExtractor{err: cause}
	strategy := &recordingStrategy{Strategy: summarize.NewExtractive(10, 100)}
	f := NewSummarizer(ext, strategy, nil)

	res, err := f.Process(context.Background(), &models.SummarizeRequest{Filename: "broken.pdf", Content: []byte("%PD")})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Same(t, cause, err)
	assert.Empty(t, strategy.inputs, "summarization must not run after extraction failure")
}

func TestProcess_UncategorizedErrorsAreTagged(t *testing.T) {
	f := NewSummarizer(&fakeExtractor{err: errors.New("boom")}, summarize.NewExtractive(10, 100), nil)

	_, err := f.Process(context.Background(), &models.SummarizeRequest{Filename: "a.pdf"})
	assert.True(t, models.IsKind(err, models.KindExtraction))
}

func TestProcess_EmptyTextExtractive(t *testing.T) {
	f := NewSummarizer(&fakeExtractor{text: ""}, summarize.NewExtractive(10, 100), nil)

	res, err := f.Process(context.Background(), &models.SummarizeRequest{Filename: "blank.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "", res.Summary)
}

type staticModel struct {
	out string
	err error
}

func (m staticModel) Name() string        { return "static" }
func (m staticModel) MaxInputTokens() int { return 4 }
func (m staticModel) Generate(context.Context, string, summarize.GenerationBounds) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []string{m.out}, nil
}

func TestProcess_Abstractive(t *testing.T) {
	t.Run("model unavailable on every call", func(t *testing.T) {
		holder := summarize.NewModelHolder()
		_ = holder.Load(context.Background(), func(ctx context.Context) (summarize.Model, error) {
			return nil, errors.New("no credentials")
		})
		f := NewSummarizer(&fakeExtractor{text: "Some text."}, summarize.NewAbstractive(holder, 1, nil), nil)

		for i := 0; i < 3; i++ {
			_, err := f.Process(context.Background(), &models.SummarizeRequest{Filename: "a.pdf"})
			assert.True(t, models.IsKind(err, models.KindModelUnavailable))
		}
		assert.Equal(t, summarize.ModelLoadFailed, holder.State())
	})

	t.Run("inference failure", func(t *testing.T) {
		holder := summarize.NewModelHolder()
		require.NoError(t, holder.Load(context.Background(), func(ctx context.Context) (summarize.Model, error) {
			return staticModel{err: errors.New("resource exhausted")}, nil
		}))
		f := NewSummarizer(&fakeExtractor{text: "Some text."}, summarize.NewAbstractive(holder, 1, nil), nil)

		_, err := f.Process(context.Background(), &models.SummarizeRequest{Filename: "a.pdf"})
		assert.True(t, models.IsKind(err, models.KindSummarization))
	})

	t.Run("success with token-proxy truncation", func(t *testing.T) {
		holder := summarize.NewModelHolder()
		require.NoError(t, holder.Load(context.Background(), func(ctx context.Context) (summarize.Model, error) {
			return staticModel{out: "A short abstract."}, nil
		}))
		strategy := &recordingStrategy{Strategy: summarize.NewAbstractive(holder, 1, nil)}
		f := NewSummarizer(&fakeExtractor{text: "This text is longer than sixteen characters."}, strategy, nil)

		res, err := f.Process(context.Background(), &models.SummarizeRequest{Filename: "a.pdf"})
		require.NoError(t, err)
		assert.Equal(t, "A short abstract.", res.Summary)
		require.Len(t, strategy.inputs, 1)
		assert.Equal(t, "This text is lon", strategy.inputs[0])
	})
}
