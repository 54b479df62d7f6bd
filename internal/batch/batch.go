// Package batch runs one pipeline stage over an input directory. Documents
// are independent, so the runner fans out across a bounded worker pool; a
// failed document is logged and skipped, never aborting the batch.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nordprofil/offertpipe/internal/domain"
	"github.com/nordprofil/offertpipe/internal/logger"
)

// Func processes one input file. A non-nil error marks the document as
// skipped; the error never stops the rest of the batch.
type Func func(ctx context.Context, path string) error

// Runner executes stage functions over directories of documents.
type Runner struct {
	workers int
}

// NewRunner returns a runner with the given worker-pool size. Sizes below
// one fall back to serial execution.
func NewRunner(workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{workers: workers}
}

// Run applies fn to every file in dir whose extension matches one of exts
// (e.g. ".txt", ".json"). Files are discovered once, up front; output files
// a stage writes while running are not picked up as inputs. The returned
// report carries per-document failures and never a batch-level error, except
// when the directory itself cannot be read or the context is canceled.
func (r *Runner) Run(ctx context.Context, stage, dir string, exts []string, fn Func) (*domain.Report, error) {
	files, err := listFiles(dir, exts)
	if err != nil {
		return nil, err
	}

	rep := &domain.Report{
		RunID: uuid.NewString(),
		Stage: stage,
	}
	start := time.Now()
	logger.Stage(stage)
	logger.Info("run %s: %d file(s) in %s", rep.RunID, len(files), dir)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := domain.Result{File: file, Err: fn(ctx, file)}
			if !res.OK() {
				logger.Error("%s: skipping %s: %v", stage, filepath.Base(file), res.Err)
			} else {
				logger.Debug("%s: processed %s", stage, filepath.Base(file))
			}
			mu.Lock()
			rep.Add(res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep.Duration = time.Since(start)
	logger.Info("%s: %d processed, %d skipped in %s", stage, rep.Processed, rep.Failed, rep.Duration.Round(time.Millisecond))
	return rep, nil
}

// listFiles returns the matching files of dir in name order, so reports are
// deterministic regardless of worker interleaving.
func listFiles(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
