package engine

import (
	"time"

	"github.com/BadgerOps/tclabpack/internal/transcode"
)

// Direction names the kind of batch.
type Direction string

const (
	DirectionCompress   Direction = "compress"
	DirectionDecompress Direction = "decompress"
)

// FileResult is the outcome for one discovered file: either Result or Err
// is set, never both.
type FileResult struct {
	Path   string
	Result *transcode.Result
	Err    error
}

// OK reports whether the file was transcoded successfully.
func (f FileResult) OK() bool {
	return f.Err == nil && f.Result != nil
}

// BatchReport summarizes one folder operation. Byte totals only count
// files that succeeded, and FilesDiscovered always equals len(Results).
type BatchReport struct {
	RunID            string
	Direction        Direction
	FolderPath       string
	OutputFolder     string
	CodecName        string // codec for compression, filter for decompression ("" = all)
	Level            int
	Pattern          string
	FilesDiscovered  int
	Results          []FileResult
	TotalSourceBytes int64
	TotalTargetBytes int64
	Elapsed          time.Duration
	Retained         bool
	StartedAt        time.Time
}

// finish folds per-file results into the aggregate counters.
func (r *BatchReport) finish(results []FileResult, elapsed time.Duration) {
	r.Results = results
	r.FilesDiscovered = len(results)
	r.TotalSourceBytes = 0
	r.TotalTargetBytes = 0
	for _, fr := range results {
		if !fr.OK() {
			continue
		}
		r.TotalSourceBytes += fr.Result.SourceSize
		r.TotalTargetBytes += fr.Result.TargetSize
	}
	r.Elapsed = elapsed
}

// Succeeded returns the number of files transcoded without error.
func (r *BatchReport) Succeeded() int {
	n := 0
	for _, fr := range r.Results {
		if fr.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of files that produced an error entry.
func (r *BatchReport) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Failures returns only the error entries, in discovery order.
func (r *BatchReport) Failures() []FileResult {
	var out []FileResult
	for _, fr := range r.Results {
		if !fr.OK() {
			out = append(out, fr)
		}
	}
	return out
}

// Ratio returns TotalTargetBytes/TotalSourceBytes, or 0 when nothing was
// transcoded.
func (r *BatchReport) Ratio() float64 {
	if r.TotalSourceBytes <= 0 {
		return 0
	}
	return float64(r.TotalTargetBytes) / float64(r.TotalSourceBytes)
}

// ElapsedSeconds returns the batch wall-clock time in seconds.
func (r *BatchReport) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}
