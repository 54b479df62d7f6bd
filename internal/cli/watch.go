package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/nordprofil/offertpipe/internal/logger"
	"github.com/nordprofil/offertpipe/internal/watch"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the input directory and re-run the pipeline on new documents",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a triggered run")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", cfg.InputDir)
	err = watch.Run(cmd.Context(), cfg.InputDir, debounce, func(ctx context.Context) {
		reports, err := p.Run(ctx)
		for _, rep := range reports {
			logger.Info("%s: %d processed, %d skipped", rep.Stage, rep.Processed, rep.Failed)
		}
		if err != nil {
			logger.Error("pipeline run: %v", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
