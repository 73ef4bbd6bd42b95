package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/Lllllllleong/pdfsummarizer/internal/models"
	"github.com/google/uuid"
)

const (
	fileField       = "pdf_file"
	requestIDHeader = "X-Request-Id"
)

var errNoFilePart = errors.New(models.MsgNoFilePart)

// handleSummarize is POST /summarize. It maps every pipeline result onto a
// status code and a JSON body.
func (a *application) handleSummarize(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set(requestIDHeader, requestID)
	logCtx := a.logger.With("requestId", requestID)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "Method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxUploadBytes)
	filename, content, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logCtx.Warn("Upload exceeds size limit.", "limitBytes", tooLarge.Limit)
			writeJSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: models.MsgFileTooLarge})
			return
		}
		logCtx.Warn("Request has no file part.", "error", err)
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: models.MsgNoFilePart})
		return
	}

	// The upload is fully buffered; a client that disconnects now does not
	// abort the summary.
	res, err := a.summarizer.Process(context.WithoutCancel(r.Context()), &models.SummarizeRequest{
		RequestID: requestID,
		Filename:  filename,
		Content:   content,
	})
	if err != nil {
		status, body := errorResponse(err)
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleHealthz is GET /healthz.
func (a *application) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "Method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Strategy:   a.strategyName(),
		ModelState: a.modelState(),
	})
}

// readUpload streams the multipart body and returns the first pdf_file part
// that is a file. A part is a file when its Content-Disposition carries a
// filename parameter, even an empty one.
func readUpload(r *http.Request) (string, []byte, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", nil, errNoFilePart
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return "", nil, errNoFilePart
		}
		if err != nil {
			return "", nil, err
		}
		if part.FormName() != fileField {
			_ = part.Close()
			continue
		}
		_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
		if err != nil {
			_ = part.Close()
			continue
		}
		if _, isFile := params["filename"]; !isFile {
			_ = part.Close()
			continue
		}

		content, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return "", nil, err
		}
		return part.FileName(), content, nil
	}
}

func errorResponse(err error) (int, models.ErrorResponse) {
	var e *models.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, models.ErrorResponse{Error: models.MsgUnexpectedFailure + ": " + err.Error()}
	}
	switch e.Kind {
	case models.KindInvalidFormat:
		return http.StatusBadRequest, models.ErrorResponse{Error: e.Message}
	case models.KindModelUnavailable:
		return http.StatusInternalServerError, models.ErrorResponse{Error: models.MsgModelNotLoaded}
	default:
		return http.StatusInternalServerError, models.ErrorResponse{Error: models.MsgUnexpectedFailure + ": " + e.Detail()}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
