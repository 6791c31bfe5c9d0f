package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aquasafe/internal/analyzer"
	"github.com/abhisek/aquasafe/internal/config"
)

func sampleCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addSampleFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestSampleFromFlags_Defaults(t *testing.T) {
	s, err := sampleFromFlags(sampleCmd(t))
	require.NoError(t, err)
	assert.Equal(t, 300.0, s.Conductivity)
	assert.InDelta(t, 192.0, s.TDS, 1e-9)
	assert.Equal(t, 7.0, s.PH)
}

func TestSampleFromFlags_DerivesTDS(t *testing.T) {
	s, err := sampleFromFlags(sampleCmd(t, "--conductivity", "500"))
	require.NoError(t, err)
	assert.InDelta(t, 320.0, s.TDS, 1e-9)
}

func TestSampleFromFlags_DerivesConductivity(t *testing.T) {
	s, err := sampleFromFlags(sampleCmd(t, "--tds", "64"))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, s.Conductivity, 1e-9)
}

func TestSampleFromFlags_RejectsUnlinkedPair(t *testing.T) {
	_, err := sampleFromFlags(sampleCmd(t, "--conductivity", "300", "--tds", "250"))
	var unlinked *analyzer.ErrUnlinked
	require.True(t, errors.As(err, &unlinked))
	assert.Equal(t, 250.0, unlinked.TDS)
}

func TestSampleFromFlags_AcceptsLinkedPair(t *testing.T) {
	s, err := sampleFromFlags(sampleCmd(t, "--conductivity", "100", "--tds", "64"))
	require.NoError(t, err)
	assert.Equal(t, 64.0, s.TDS)
}

func TestCheck_JSONWithoutReport(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"check", "--no-report", "--json", "--ph", "9.1"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())

	var res checkResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "rule_violation", res.Outcome)
	assert.Equal(t, "Unsafe (WHO Rule Violation)", res.Label)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Nil(t, res.Report)
}

func TestRules_PrintsTable(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"rules"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "6.5 ≤ ph ≤ 8.5")
	assert.Contains(t, out.String(), "Turbidity (NTU)")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(&config.ConfigurationError{Setting: "threshold"}))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}
