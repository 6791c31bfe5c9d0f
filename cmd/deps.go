package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/aquasafe/internal/analyzer"
	"github.com/abhisek/aquasafe/internal/classifier"
	"github.com/abhisek/aquasafe/internal/config"
	"github.com/abhisek/aquasafe/internal/decision"
	"github.com/abhisek/aquasafe/internal/llm"
	"github.com/abhisek/aquasafe/internal/report"
	"github.com/abhisek/aquasafe/internal/store"
)

// services are the dependencies shared by the TUI and check.
type services struct {
	store    *store.Store
	analyzer *analyzer.Analyzer
	// events is nil when reports are disabled.
	events store.EventRepo
}

// buildServices opens the session store and wires the analyzer.
func buildServices(ctx context.Context, cfg config.Config, logger *slog.Logger) (*services, error) {
	st, err := store.Open(store.DefaultDSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	opts := analyzer.Options{
		Threshold:   cfg.Threshold,
		Assessments: st.AssessmentRepo(),
		Logger:      logger,
	}

	svc := &services{store: st}
	if cfg.Report.Enabled {
		svc.events = st.EventRepo()
		provider, err := llm.NewProvider(ctx, cfg.LLM, svc.events, logger)
		if err != nil {
			st.Close()
			return nil, &config.ConfigurationError{
				Setting: "llm.provider",
				Reason:  "could not create LLM provider",
				Hint:    "run with --no-report to skip the AI report",
				Err:     err,
			}
		}
		rc := report.DefaultConfig()
		if cfg.Report.MaxTokens > 0 {
			rc.MaxTokens = cfg.Report.MaxTokens
		}
		opts.Reports = report.New(provider, rc, logger)
	}

	engine := decision.NewEngine(loadClassifier(cfg.ModelPath, logger), decision.WithLogger(logger))
	svc.analyzer = analyzer.New(engine, opts)
	return svc, nil
}

// loadClassifier loads the model artifact. A model that cannot be loaded
// does not stop the program: every prediction fails instead, and samples
// that pass the rules are reported as prediction errors.
func loadClassifier(path string, logger *slog.Logger) classifier.Classifier {
	model, err := classifier.LoadModel(path)
	if err == nil {
		logger.Debug("classifier loaded", "model", model.Name(), "path", path)
		return model
	}

	logger.Error("failed to load classifier", "path", path, "error", err)
	return classifier.Func(func(context.Context, []float64) (float64, error) {
		return 0, &classifier.PredictionError{Reason: "model unavailable", Err: err}
	})
}

func (s *services) Close() error {
	return s.store.Close()
}
