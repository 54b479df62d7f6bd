// Package cli implements the offertpipe command tree. Each pipeline stage
// is its own subcommand so a partially processed work tree can be resumed
// from any point; run executes all stages in order.
package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nordprofil/offertpipe/internal/config"
	"github.com/nordprofil/offertpipe/internal/domain"
	"github.com/nordprofil/offertpipe/internal/logger"
	"github.com/nordprofil/offertpipe/internal/pipeline"
)

var (
	cfgPath  string
	verbose  bool
	inputDir string
	workDir  string
	variants int
	seed     int64
	workers  int

	// cfg is the loaded configuration, populated before any RunE fires.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "offertpipe",
	Short: "Turn supplier quote documents into a training dataset",
	Long: `offertpipe processes aluminium-profile quote documents into a flat
training dataset: text extraction, section splitting, product-line parsing,
schema validation, field normalization, feature derivation, synthetic
variant generation and tabular assembly.

Each stage reads one directory and writes the next, so any stage can be
re-run on its own against an existing work tree.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		c, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("input") {
			c.InputDir = inputDir
		}
		if cmd.Flags().Changed("work") {
			c.WorkDir = workDir
		}
		if cmd.Flags().Changed("variants") {
			c.Variants = variants
		}
		if cmd.Flags().Changed("seed") {
			c.Seed = seed
		}
		if cmd.Flags().Changed("workers") {
			c.Workers = workers
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to offertpipe.toml")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&inputDir, "input", "", "input directory with quote documents")
	pf.StringVar(&workDir, "work", "", "work directory for stage outputs")
	pf.IntVar(&variants, "variants", 0, "synthetic variants per record")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	pf.IntVar(&workers, "workers", 0, "worker pool size per batch")
}

// Execute runs the command tree. The context carries interrupt-driven
// cancellation into long-running commands like run and watch.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newPipeline builds a pipeline from the loaded configuration.
func newPipeline() (*pipeline.Pipeline, error) {
	return pipeline.New(cfg)
}

// printReport writes one stage report to the command output.
func printReport(cmd *cobra.Command, rep *domain.Report) {
	cmd.Printf("%s: %d processed, %d skipped (run %s)\n",
		rep.Stage, rep.Processed, rep.Failed, rep.RunID)
	for _, f := range rep.Failures {
		cmd.Printf("  %s: %v\n", filepath.Base(f.File), f.Err)
	}
}
