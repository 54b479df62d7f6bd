package cli

import (
	"github.com/spf13/cobra"
)

var extraDir string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every pipeline stage in order",
	Long: `Runs extract, format, structure, rows, normalize, variants, features
and dataset in sequence. Documents that fail a stage are logged and skipped;
the run only stops when a stage cannot start at all.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&extraDir, "extra-dir", "", "directory of pre-built JSON records merged into the dataset")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("extra-dir") {
		cfg.ExtraDir = extraDir
	}
	p, err := newPipeline()
	if err != nil {
		return err
	}
	reports, err := p.Run(cmd.Context())
	for _, rep := range reports {
		printReport(cmd, rep)
	}
	return err
}
