package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/aquasafe/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "aquasafe",
	Short: "Water potability analyzer",
	Long: "aquasafe checks a water sample against WHO potability limits, then asks a\n" +
		"trained classifier, and optionally writes an AI treatment report.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return exitCode(err)
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/aquasafe/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides AQUASAFE_LOG_LEVEL)")
	rootCmd.PersistentFlags().Bool("no-report", false, "Skip the AI report; no API key is needed")
	rootCmd.PersistentFlags().Float64("threshold", -1, "Decision threshold in [0, 1] (overrides AQUASAFE_THRESHOLD)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the config file, env and flags, in increasing
// priority, and validates the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if off, _ := cmd.Flags().GetBool("no-report"); off {
		cfg.Report.Enabled = false
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold, _ = cmd.Flags().GetFloat64("threshold")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
