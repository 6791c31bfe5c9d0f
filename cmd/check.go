package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/abhisek/aquasafe/internal/analyzer"
	"github.com/abhisek/aquasafe/internal/config"
	"github.com/abhisek/aquasafe/internal/llm"
	"github.com/abhisek/aquasafe/internal/logging"
	"github.com/abhisek/aquasafe/internal/report"
	"github.com/abhisek/aquasafe/internal/sample"
	"github.com/abhisek/aquasafe/internal/store"
	"github.com/abhisek/aquasafe/internal/units"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Assess one sample and print the verdict",
	Long: "Assess one sample from flags. Pass either --conductivity or --tds and the\n" +
		"other is derived (TDS = 0.64 × EC); passing both requires them to agree.",
	Example: "  aquasafe check --ph 7.2 --turbidity 1.5 --conductivity 250 --do 7",
	RunE:    runCheck,
}

func init() {
	addSampleFlags(checkCmd)
	checkCmd.Flags().Bool("json", false, "Print the result as JSON")
	checkCmd.Flags().Bool("usage", false, "Print LLM token usage and estimated cost after the report")
}

// addSampleFlags registers one flag per measured field, defaulting to the
// form defaults.
func addSampleFlags(c *cobra.Command) {
	def := sample.Default()
	f := c.Flags()
	f.Float64("ph", def.PH, "pH")
	f.Float64("turbidity", def.Turbidity, "Turbidity (NTU)")
	f.Float64("conductivity", def.Conductivity, "Electrical conductivity (µS/cm)")
	f.Float64("tds", def.TDS, "Total dissolved solids (ppm)")
	f.Float64("do", def.DissolvedOxygen, "Dissolved oxygen (mg/L)")
}

// checkResult is the JSON form of a check.
type checkResult struct {
	Sample      sample.Sample  `json:"sample"`
	Outcome     string         `json:"outcome"`
	Label       string         `json:"label"`
	Confidence  float64        `json:"confidence"`
	Threshold   float64        `json:"threshold"`
	Violation   string         `json:"violation,omitempty"`
	Error       string         `json:"error,omitempty"`
	Report      *report.Report `json:"report,omitempty"`
	ReportError string         `json:"report_error,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := logging.Setup(level)

	s, err := sampleFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, err := buildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	as, err := svc.analyzer.Assess(ctx, s)
	if err != nil {
		return fmt.Errorf("invalid sample: %w", err)
	}

	res := toCheckResult(as)
	if svc.analyzer.ReportsEnabled() {
		r, err := svc.analyzer.Report(ctx, as)
		if err != nil {
			logger.Warn("report failed", "error", err)
			res.ReportError = err.Error()
		}
		res.Report = r
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printResult(out, res)
	if usage, _ := cmd.Flags().GetBool("usage"); usage && svc.events != nil {
		return printUsage(ctx, out, svc.events)
	}
	return nil
}

// sampleFromFlags assembles the sample, deriving whichever of conductivity
// and TDS was not given.
func sampleFromFlags(cmd *cobra.Command) (sample.Sample, error) {
	f := cmd.Flags()
	var s sample.Sample
	s.PH, _ = f.GetFloat64("ph")
	s.Turbidity, _ = f.GetFloat64("turbidity")
	s.DissolvedOxygen, _ = f.GetFloat64("do")
	cond, _ := f.GetFloat64("conductivity")
	tds, _ := f.GetFloat64("tds")

	pair := units.NewPair()
	switch {
	case f.Changed("conductivity") && f.Changed("tds"):
		if !units.Consistent(cond, tds, pair.Factor()) {
			return s, &analyzer.ErrUnlinked{Conductivity: cond, TDS: tds, Factor: pair.Factor()}
		}
		s.Conductivity, s.TDS = cond, tds
		return s, nil
	case f.Changed("tds"):
		pair.SetTDS(tds)
	default:
		pair.SetConductivity(cond)
	}
	s.Conductivity, s.TDS = pair.Conductivity(), pair.TDS()
	return s, nil
}

func toCheckResult(as *analyzer.Assessment) checkResult {
	v := as.Verdict
	res := checkResult{
		Sample:     as.Sample,
		Outcome:    v.State(),
		Label:      v.Label(),
		Confidence: v.Confidence,
		Threshold:  v.Threshold,
	}
	if v.Violation != nil {
		res.Violation = v.Violation.String()
	}
	if v.Err != nil {
		res.Error = v.Err.Error()
	}
	return res
}

func printResult(w io.Writer, res checkResult) {
	fmt.Fprintf(w, "Decision:       %s\n", res.Label)
	fmt.Fprintf(w, "ML Confidence:  %.2f%%\n", res.Confidence*100)
	fmt.Fprintf(w, "Threshold:      %.2f\n", res.Threshold)
	if res.Violation != "" {
		fmt.Fprintf(w, "Violation:      %s\n", res.Violation)
	}

	switch {
	case res.ReportError != "":
		fmt.Fprintln(w)
		fmt.Fprintln(w, res.ReportError)
	case res.Report != nil:
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderMarkdown(res.Report.Markdown()))
	default:
		return
	}
	fmt.Fprintln(w, report.Footer)
}

// renderMarkdown renders md for the terminal, falling back to the raw text.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// printUsage prints per-model token usage and estimated cost.
func printUsage(ctx context.Context, w io.Writer, events store.EventRepo) error {
	usage, err := events.UsageByModel(ctx)
	if err != nil {
		return fmt.Errorf("query usage: %w", err)
	}
	if len(usage) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-28s  %-5s  %-8s  %-8s  %s\n", "Model", "Reqs", "In", "Out", "Est. cost")
	fmt.Fprintln(w, strings.Repeat("─", 66))
	for _, u := range usage {
		cost := "n/a"
		if c := llm.LookupCost(u.Model); c != nil {
			cost = fmt.Sprintf("$%.4f", c.Cost(u.InputTokens, u.OutputTokens))
		}
		fmt.Fprintf(w, "%-28s  %-5d  %-8d  %-8d  %s\n", u.Model, u.Requests, u.InputTokens, u.OutputTokens, cost)
	}
	return nil
}

// exitCode maps an error from Execute to a process exit status.
func exitCode(err error) int {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}
