package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aquasafe/internal/rules"
	"github.com/abhisek/aquasafe/internal/sample"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the WHO potability limits",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-24s  %s\n", "Parameter", "Acceptable")
		fmt.Fprintln(w, strings.Repeat("─", 50))
		for _, l := range rules.Limits() {
			fmt.Fprintf(w, "%-24s  %s\n", sample.Spec(l.Field).DisplayLabel(), l.String())
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Any single violation makes the sample unsafe; the classifier is not consulted.")
	},
}
