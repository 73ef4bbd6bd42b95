package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Formatting(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		wantError  string
		wantDetail string
	}{
		{
			name:       "without cause",
			err:        InvalidFormatError(MsgInvalidFormat),
			wantError:  "[invalid_format] Invalid file format. Please upload a PDF file.",
			wantDetail: "Invalid file format. Please upload a PDF file.",
		},
		{
			name:       "with cause",
			err:        ExtractionError("failed to open PDF", errors.New("malformed PDF: cannot find startxref")),
			wantError:  "[extraction] failed to open PDF: malformed PDF: cannot find startxref",
			wantDetail: "failed to open PDF: malformed PDF: cannot find startxref",
		},
		{
			name:       "model unavailable",
			err:        ModelUnavailableError(nil),
			wantError:  "[model_unavailable] Summarization model not loaded.",
			wantDetail: "Summarization model not loaded.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantError, tt.err.Error())
			assert.Equal(t, tt.wantDetail, tt.err.Detail())
		})
	}
}

func TestKindOf_FollowsWrapChain(t *testing.T) {
	cause := errors.New("out of memory")
	wrapped := fmt.Errorf("process: %w", SummarizationError("model invocation failed", cause))

	assert.Equal(t, KindSummarization, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindSummarization))
	assert.False(t, IsKind(wrapped, KindExtraction))
	assert.ErrorIs(t, wrapped, cause)

	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindSummarization))
}
