package models

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes every failure the pipeline can report.
type ErrorKind string

const (
	KindInvalidFormat    ErrorKind = "invalid_format"
	KindExtraction       ErrorKind = "extraction"
	KindModelUnavailable ErrorKind = "model_unavailable"
	KindSummarization    ErrorKind = "summarization"
)

// User-facing messages for the input validation failures.
const (
	MsgNoFilePart        = "No file part in the request"
	MsgNoSelectedFile    = "No selected file"
	MsgInvalidFormat     = "Invalid file format. Please upload a PDF file."
	MsgModelNotLoaded    = "Summarization model not loaded."
	MsgFileTooLarge      = "File too large"
	MsgUnexpectedFailure = "An error occurred"
)

// Error is a categorized pipeline error. Message is safe to show to callers;
// Err carries the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detail is the message plus its cause, without the kind tag.
func (e *Error) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// NewError creates a new categorized error.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func InvalidFormatError(message string) *Error {
	return NewError(KindInvalidFormat, message, nil)
}

func ExtractionError(message string, err error) *Error {
	return NewError(KindExtraction, message, err)
}

func ModelUnavailableError(err error) *Error {
	return NewError(KindModelUnavailable, MsgModelNotLoaded, err)
}

func SummarizationError(message string, err error) *Error {
	return NewError(KindSummarization, message, err)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
