package transcode

import (
	"time"

	"github.com/BadgerOps/tclabpack/internal/codec"
)

// Result describes one completed compress or decompress operation.
// For decompression SourcePath is the compressed input and TargetPath the
// recovered file.
type Result struct {
	SourcePath     string
	TargetPath     string
	Codec          codec.Codec
	Level          int
	SourceSize     int64
	TargetSize     int64
	Elapsed        time.Duration
	SourceRetained bool
}

// Ratio returns TargetSize/SourceSize, or 0 for an empty source.
func (r *Result) Ratio() float64 {
	if r.SourceSize <= 0 {
		return 0
	}
	return float64(r.TargetSize) / float64(r.SourceSize)
}

// ElapsedSeconds returns the wall-clock duration in seconds.
func (r *Result) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}
