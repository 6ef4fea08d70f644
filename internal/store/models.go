package store

import "time"

// BatchRun records one folder compress or decompress invocation
type BatchRun struct {
	ID               int64
	RunID            string // uuid assigned by the engine
	Direction        string // "compress" or "decompress"
	Folder           string
	OutputFolder     string
	Codec            string // codec name, or codec filter for decompression ("" = all)
	Level            int
	Pattern          string
	FilesDiscovered  int
	FilesFailed      int
	TotalSourceBytes int64
	TotalTargetBytes int64
	ElapsedMillis    int64
	Retained         bool
	StartTime        time.Time
	EndTime          time.Time
}

// BatchFile records the outcome for one file inside a BatchRun
type BatchFile struct {
	ID            int64
	BatchRunID    int64
	SourcePath    string
	TargetPath    string // empty on failure
	Codec         string
	SourceSize    int64
	TargetSize    int64
	ElapsedMillis int64
	Error         string // empty on success
}
