package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/pdfsummarizer/internal/config"
	"github.com/Lllllllleong/pdfsummarizer/internal/gcp"
	"github.com/Lllllllleong/pdfsummarizer/internal/llm"
	"github.com/Lllllllleong/pdfsummarizer/internal/pdftext"
	"github.com/Lllllllleong/pdfsummarizer/internal/services"
	"github.com/Lllllllleong/pdfsummarizer/internal/summarize"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

const userAgent = "pdf-summarizer"

// application holds everything built once per process.
type application struct {
	cfg        *config.Config
	logger     *slog.Logger
	holder     *summarize.ModelHolder
	summarizer *services.SummarizerFunction
	objects    *services.ObjectSummarizerFunction
}

// newApplication loads configuration, installs the JSON logger and builds the
// pipeline. For the abstractive strategy the model is loaded here, once. A
// failed load is logged and the process keeps serving: requests then get the
// model-not-loaded error.
func newApplication(ctx context.Context) (*application, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	var reader *gcp.ObjectReader
	storageClient, err := storage.NewClient(ctx, option.WithUserAgent(userAgent))
	if err != nil {
		logger.Warn("Cloud Storage client unavailable; object events and model manifests are disabled", "error", err)
	} else {
		reader = gcp.NewObjectReader(storageClient, cfg.MaxUploadBytes)
	}

	sep := ""
	if cfg.SeparatePDFPages {
		sep = "\n"
	}
	extractor := pdftext.NewExtractor(
		pdftext.WithValidation(cfg.ValidatePDF),
		pdftext.WithPageSeparator(sep),
		pdftext.WithLogger(logger),
	)

	app := &application{cfg: cfg, logger: logger}

	var strategy summarize.Strategy
	switch cfg.Strategy {
	case config.StrategyAbstractive:
		app.holder = summarize.NewModelHolder()
		if err := app.holder.Load(ctx, modelLoader(cfg, reader, logger)); err != nil {
			logger.Error("Summarization model failed to load; abstractive requests will be rejected", "backend", cfg.Model.Backend, "error", err)
		} else {
			logger.Info("Summarization model loaded.", "backend", cfg.Model.Backend)
		}
		strategy = summarize.NewAbstractive(app.holder, cfg.Model.MaxConcurrency, logger)
	default:
		strategy = summarize.NewExtractive(cfg.MaxSentences, cfg.ExtractiveMaxInputChars)
	}

	app.summarizer = services.NewSummarizer(extractor, strategy, logger)
	if reader != nil {
		app.objects = services.NewObjectSummarizer(reader, app.summarizer, logger)
	}

	logger.Info("Summarizer initialized.", "strategy", strategy.Name(), "maxUploadBytes", cfg.MaxUploadBytes)
	return app, nil
}

// modelLoader applies the optional manifest and then builds the configured
// backend. The backend constructors probe the model, so an unreachable model
// fails here rather than on the first request.
func modelLoader(cfg *config.Config, reader *gcp.ObjectReader, logger *slog.Logger) summarize.LoaderFunc {
	return func(ctx context.Context) (summarize.Model, error) {
		if uri := cfg.Model.ManifestURI; uri != "" {
			if reader == nil {
				return nil, errors.New("model manifest configured but Cloud Storage is unavailable")
			}
			manifest, err := gcp.LoadModelManifest(ctx, reader, uri)
			if err != nil {
				return nil, err
			}
			if err := cfg.ApplyManifest(manifest); err != nil {
				return nil, fmt.Errorf("invalid model manifest %s: %w", uri, err)
			}
			logger.Info("Model manifest applied.", "manifestUri", uri, "backend", cfg.Model.Backend, "model", cfg.Model.Name)
		}

		switch cfg.Model.Backend {
		case config.BackendOpenAI:
			m, err := llm.NewOpenAIModel(ctx, llm.OpenAIConfig{
				APIKey:         cfg.OpenAI.APIKey,
				BaseURL:        cfg.OpenAI.BaseURL,
				ModelName:      cfg.Model.Name,
				MaxInputTokens: cfg.Model.MaxInputTokens,
				SystemPrompt:   cfg.Model.SystemPrompt,
			})
			if err != nil {
				return nil, err
			}
			return m, nil
		default:
			m, err := gcp.NewVertexModel(ctx, gcp.VertexConfig{
				ProjectID:      cfg.GCP.ProjectID,
				Region:         cfg.GCP.VertexAIRegion,
				ModelName:      cfg.Model.Name,
				MaxInputTokens: cfg.Model.MaxInputTokens,
				SystemPrompt:   cfg.Model.SystemPrompt,
			}, option.WithUserAgent(userAgent))
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
}

func (a *application) strategyName() string {
	return a.summarizer.Strategy().Name()
}

func (a *application) modelState() string {
	if a.holder == nil {
		return ""
	}
	return a.holder.State().String()
}
