package domain

import "time"

// Result is the outcome of processing one document. A failed document never
// aborts a batch; the runner collects the Result and moves on.
type Result struct {
	// File is the input file the result refers to.
	File string
	// Err is nil on success, otherwise the reason the document was skipped.
	Err error
}

// OK reports whether the document was processed successfully.
func (r Result) OK() bool {
	return r.Err == nil
}

// Report aggregates the outcome of one batch run.
type Report struct {
	// RunID uniquely identifies the batch run in logs.
	RunID string
	// Stage names the pipeline stage the report belongs to.
	Stage string
	// Processed counts documents that produced a complete output.
	Processed int
	// Failed counts documents that were skipped.
	Failed int
	// Failures holds the per-document reasons, in completion order.
	Failures []Result
	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Add folds one document result into the report.
func (rep *Report) Add(res Result) {
	if res.OK() {
		rep.Processed++
		return
	}
	rep.Failed++
	rep.Failures = append(rep.Failures, res)
}

// Total returns the number of documents seen.
func (rep *Report) Total() int {
	return rep.Processed + rep.Failed
}
