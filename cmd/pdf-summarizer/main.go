package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/pdfsummarizer/internal/models"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

var (
	appInstance *application
	once        sync.Once
	initErr     error
)

func init() {
	// Without FUNCTION_TARGET the framework serves each function at /<name>.
	functions.HTTP("summarize", summarizeHTTP)
	functions.HTTP("healthz", healthzHTTP)
	functions.CloudEvent("summarize-object", summarizeObject)
}

func getApp() (*application, error) {
	once.Do(func() {
		appInstance, initErr = newApplication(context.Background())
	})
	return appInstance, initErr
}

// main initializes eagerly so the model is loaded before the first request,
// then starts the local server.
func main() {
	app, err := getApp()
	if err != nil {
		slog.Error("Critical error during initialization", "error", err)
		os.Exit(1)
	}
	if err := funcframework.Start(app.cfg.Port); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func summarizeHTTP(w http.ResponseWriter, r *http.Request) {
	app, err := getApp()
	if err != nil {
		slog.Error("Summarizer initialization failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: models.MsgUnexpectedFailure + ": service failed to initialize"})
		return
	}
	app.handleSummarize(w, r)
}

func healthzHTTP(w http.ResponseWriter, r *http.Request) {
	app, err := getApp()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "service failed to initialize"})
		return
	}
	app.handleHealthz(w, r)
}

// summarizeObject is the Cloud Storage finalize trigger.
func summarizeObject(ctx context.Context, e cloudevents.Event) error {
	app, err := getApp()
	if err != nil {
		slog.Error("Critical error during function initialization", "error", err)
		return err
	}
	if app.objects == nil {
		return errors.New("object summarizer unavailable: no Cloud Storage client")
	}

	var gcsEvent models.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	// The error is already logged with context within Process.
	_, err = app.objects.Process(ctx, gcsEvent, uuid.NewString())
	return err
}
