package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/aquasafe/internal/app"
	"github.com/abhisek/aquasafe/internal/config"
	"github.com/abhisek/aquasafe/internal/logging"
)

// runApp builds dependencies and launches the TUI. Logs go to a file since
// the terminal belongs to the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger, closeLog := logging.SetupFile(level)
	defer closeLog()

	svc, err := buildServices(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	logger.Info("starting tui", "threshold", cfg.Threshold, "reports", cfg.Report.Enabled)

	return app.Run(app.Deps{
		Analyzer:    svc.analyzer,
		Assessments: svc.store.AssessmentRepo(),
		Events:      svc.events,
		Logger:      logger,
	})
}
