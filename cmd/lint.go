package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/starforge/internal/data/pipeline"
	"github.com/zjrosen/starforge/internal/data/validate"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate the data pack and mods without starting the runtime",
	Long: `Runs the resolver, decoder, merge engine and validator once and
reports every diagnostic. No registry is built and nothing is published.
Exits non-zero when any fatal diagnostic is found.`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	loader := pipeline.NewLoader(cfg.DataDir, cfg.ModsDir, nil)

	version, diags, err := loader.Lint(cmd.Context())
	if err != nil {
		return err
	}

	for _, d := range diags {
		fmt.Fprintln(cmd.OutOrStdout(), d.String())
	}

	fatal := validate.Count(diags, validate.SeverityFatal)
	advisory := validate.Count(diags, validate.SeverityAdvisory)
	if fatal > 0 {
		return fmt.Errorf("%d fatal, %d advisory", fatal, advisory)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: schema v%d, %d advisories\n", version, advisory)
	return nil
}
