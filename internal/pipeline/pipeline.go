// Package pipeline wires the stage packages to the directory contract: each
// stage reads every matching file from one directory and writes one output
// file per input into its own directory. Stages are independently runnable,
// idempotent per filename, and safe to re-run over a partial work tree.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nordprofil/offertpipe/internal/batch"
	"github.com/nordprofil/offertpipe/internal/config"
	"github.com/nordprofil/offertpipe/internal/dataset"
	"github.com/nordprofil/offertpipe/internal/domain"
	"github.com/nordprofil/offertpipe/internal/extract"
	"github.com/nordprofil/offertpipe/internal/features"
	"github.com/nordprofil/offertpipe/internal/logger"
	"github.com/nordprofil/offertpipe/internal/normalize"
	"github.com/nordprofil/offertpipe/internal/schema"
	"github.com/nordprofil/offertpipe/internal/structurer"
	"github.com/nordprofil/offertpipe/internal/variantgen"
)

// Pipeline runs the document-to-dataset stages against one configuration.
type Pipeline struct {
	cfg       *config.Config
	validator *schema.Validator
	runner    *batch.Runner
	seed      int64
}

// New builds a pipeline from the configuration. A zero seed is replaced by
// a time-based one, so only explicitly seeded runs are reproducible.
func New(cfg *config.Config) (*Pipeline, error) {
	v, err := schema.New()
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Pipeline{
		cfg:       cfg,
		validator: v,
		runner:    batch.NewRunner(cfg.Workers),
		seed:      seed,
	}, nil
}

// Run executes all stages in order and returns their reports. The first
// stage-level failure (unreadable directory, canceled context) stops the
// run; per-document failures never do.
func (p *Pipeline) Run(ctx context.Context) ([]*domain.Report, error) {
	stages := []func(context.Context) (*domain.Report, error){
		p.Extract, p.Canonicalize, p.Structure, p.Rows,
		p.Normalize, p.Variants, p.Features, p.Dataset,
	}
	var reports []*domain.Report
	for _, stage := range stages {
		rep, err := stage(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// Extract pulls plain text out of the raw input documents.
func (p *Pipeline) Extract(ctx context.Context) (*domain.Report, error) {
	if err := os.MkdirAll(p.cfg.TxtDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating txt dir: %w", err)
	}
	return p.runner.Run(ctx, "extract", p.cfg.InputDir, []string{".pdf", ".txt"},
		func(_ context.Context, path string) error {
			text, err := extract.Text(path)
			if err != nil {
				return err
			}
			out := filepath.Join(p.cfg.TxtDir(), baseName(path)+".txt")
			return os.WriteFile(out, []byte(text), 0o644)
		})
}

// Canonicalize rewrites raw text into the canonical section-delimited form.
func (p *Pipeline) Canonicalize(ctx context.Context) (*domain.Report, error) {
	if err := os.MkdirAll(p.cfg.CanonicalDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating canonical dir: %w", err)
	}
	return p.runner.Run(ctx, "format", p.cfg.TxtDir(), []string{".txt"},
		func(_ context.Context, path string) error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			text := structurer.Canonicalize(string(data), p.cfg.Tables)
			out := filepath.Join(p.cfg.CanonicalDir(), filepath.Base(path))
			return os.WriteFile(out, []byte(text), 0o644)
		})
}

// Structure parses canonical text into validated quote JSON. A document
// that fails validation produces no output file at all.
func (p *Pipeline) Structure(ctx context.Context) (*domain.Report, error) {
	if err := os.MkdirAll(p.cfg.QuoteDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating quote dir: %w", err)
	}
	return p.runner.Run(ctx, "structure", p.cfg.CanonicalDir(), []string{".txt"},
		func(_ context.Context, path string) error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			q := structurer.Decode(string(data))
			if err := p.validator.Validate(q); err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(q, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding quote: %w", err)
			}
			out := filepath.Join(p.cfg.QuoteDir(), baseName(path)+".json")
			return os.WriteFile(out, encoded, 0o644)
		})
}

// Rows flattens every quote into one JSON row file per product line. The
// stage runs serially because the row index is global across the batch.
func (p *Pipeline) Rows(ctx context.Context) (*domain.Report, error) {
	rep := &domain.Report{RunID: uuid.NewString(), Stage: "rows"}
	start := time.Now()
	logger.Stage("rows")

	files, err := listJSON(p.cfg.QuoteDir())
	if err != nil {
		return nil, err
	}

	var rows []*domain.FlatRecord
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q, err := readQuote(file)
		if err != nil {
			logger.Error("rows: skipping %s: %v", filepath.Base(file), err)
			rep.Add(domain.Result{File: file, Err: err})
			continue
		}
		rows = append(rows, dataset.Flatten(q)...)
		rep.Add(domain.Result{File: file})
	}

	if _, err := dataset.WriteRows(p.cfg.RowDir(), rows); err != nil {
		return nil, err
	}
	rep.Duration = time.Since(start)
	logger.Info("rows: %d quote(s) -> %d row(s)", rep.Processed, len(rows))
	return rep, nil
}

// Normalize applies the per-field transforms to every flat row.
func (p *Pipeline) Normalize(ctx context.Context) (*domain.Report, error) {
	if err := os.MkdirAll(p.cfg.NormalizedDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating normalized dir: %w", err)
	}
	return p.runner.Run(ctx, "normalize", p.cfg.RowDir(), []string{".json"},
		func(_ context.Context, path string) error {
			rec, err := readRecord(path)
			if err != nil {
				return err
			}
			normalize.Apply(rec)
			out := filepath.Join(p.cfg.NormalizedDir(), filepath.Base(path))
			return writeRecord(out, rec)
		})
}

// Variants expands every normalized row into its synthetic family.
func (p *Pipeline) Variants(ctx context.Context) (*domain.Report, error) {
	if err := os.MkdirAll(p.cfg.VariantDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating variant dir: %w", err)
	}
	return p.runner.Run(ctx, "variants", p.cfg.NormalizedDir(), []string{".json"},
		func(_ context.Context, path string) error {
			rec, err := readRecord(path)
			if err != nil {
				return err
			}
			gen := variantgen.New(p.cfg.Tables, p.cfg.Variants, p.fileRNG(path))
			for i, v := range gen.Variants(rec) {
				out := filepath.Join(p.cfg.VariantDir(), variantgen.FileName(baseName(path), i))
				if err := writeRecord(out, v); err != nil {
					return err
				}
			}
			return nil
		})
}

// Features enriches every variant with the derived feature columns.
func (p *Pipeline) Features(ctx context.Context) (*domain.Report, error) {
	if err := os.MkdirAll(p.cfg.ReadyDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating ready dir: %w", err)
	}
	return p.runner.Run(ctx, "features", p.cfg.VariantDir(), []string{".json"},
		func(_ context.Context, path string) error {
			rec, err := readRecord(path)
			if err != nil {
				return err
			}
			market := features.NewMarket(p.fileRNG(path))
			enriched, err := features.Enrich(rec, p.cfg.Tables, market)
			if err != nil {
				return err
			}
			out := filepath.Join(p.cfg.ReadyDir(), "processed_"+filepath.Base(path))
			return writeRecord(out, enriched)
		})
}

// Dataset assembles the final table from the enriched records, merges any
// extra pre-built records, and writes the CSV, XLSX and SQLite sinks.
func (p *Pipeline) Dataset(ctx context.Context) (*domain.Report, error) {
	rep := &domain.Report{RunID: uuid.NewString(), Stage: "dataset"}
	start := time.Now()
	logger.Stage("dataset")

	files, err := listJSON(p.cfg.ReadyDir())
	if err != nil {
		return nil, err
	}
	if p.cfg.ExtraDir != "" {
		extras, err := listJSON(p.cfg.ExtraDir)
		if err != nil {
			return nil, err
		}
		files = append(files, extras...)
	}

	var records []*domain.FlatRecord
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := readRecord(file)
		if err != nil {
			logger.Error("dataset: skipping %s: %v", filepath.Base(file), err)
			rep.Add(domain.Result{File: file, Err: err})
			continue
		}
		records = append(records, rec)
		rep.Add(domain.Result{File: file})
	}

	rows := dataset.Assemble(records)
	if err := dataset.WriteCSV(p.cfg.DatasetCSV(), rows); err != nil {
		return nil, err
	}
	if err := dataset.WriteXLSX(p.cfg.DatasetXLSX(), rows); err != nil {
		return nil, err
	}
	if err := dataset.WriteSQLite(ctx, p.cfg.DatasetDB(), rows); err != nil {
		return nil, err
	}

	rep.Duration = time.Since(start)
	logger.Info("dataset: %d record(s) -> %s", len(rows), p.cfg.DatasetCSV())
	return rep, nil
}

// fileRNG derives a per-file random source from the run seed and the file
// base name. Workers draw independently, so stochastic stages stay both
// parallel and reproducible under a fixed seed.
func (p *Pipeline) fileRNG(path string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(baseName(path)))
	return rand.New(rand.NewSource(p.seed ^ int64(h.Sum64())))
}

// baseName strips the directory and extension from a path.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// listJSON returns the JSON files of dir in name order.
func listJSON(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// readQuote decodes one structured quote file, keeping numeric literals as
// json.Number so downstream decimal-place counting sees the original form.
func readQuote(path string) (domain.Quote, error) {
	var q domain.Quote
	data, err := os.ReadFile(path)
	if err != nil {
		return q, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&q); err != nil {
		return q, fmt.Errorf("%w: %v", domain.ErrMalformedJSON, err)
	}
	return q, nil
}

// readRecord decodes one flat record file.
func readRecord(path string) (*domain.FlatRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec domain.FlatRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// writeRecord writes one flat record file.
func writeRecord(path string, rec *domain.FlatRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
