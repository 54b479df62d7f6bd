package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nordprofil/offertpipe/internal/domain"
	"github.com/nordprofil/offertpipe/internal/pipeline"
)

// stageRunE adapts one pipeline stage method into a cobra RunE.
func stageRunE(stage func(*pipeline.Pipeline, context.Context) (*domain.Report, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		rep, err := stage(p, cmd.Context())
		if err != nil {
			return err
		}
		printReport(cmd, rep)
		return nil
	}
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract plain text from the input documents",
	RunE:  stageRunE((*pipeline.Pipeline).Extract),
}

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Rewrite raw text into canonical section-delimited form",
	RunE:  stageRunE((*pipeline.Pipeline).Canonicalize),
}

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Parse canonical text into validated quote JSON",
	RunE:  stageRunE((*pipeline.Pipeline).Structure),
}

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "Flatten quotes into one JSON row per product line",
	RunE:  stageRunE((*pipeline.Pipeline).Rows),
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize raw string fields into typed values",
	RunE:  stageRunE((*pipeline.Pipeline).Normalize),
}

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "Generate synthetic variants of each row",
	RunE:  stageRunE((*pipeline.Pipeline).Variants),
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Derive geometry, tolerance and market feature columns",
	RunE:  stageRunE((*pipeline.Pipeline).Features),
}

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Assemble the final CSV, XLSX and SQLite dataset",
	RunE:  stageRunE((*pipeline.Pipeline).Dataset),
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(structureCmd)
	rootCmd.AddCommand(rowsCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(variantsCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(datasetCmd)
}
