package engine

// FileEvent describes one finished file for progress reporting.
type FileEvent struct {
	Direction Direction
	Index     int // 1-based position in discovery order
	Total     int
	Path      string
	Status    string // "completed", "failed"
	Err       error
	Size      int64 // target size on success
}

// ProgressFunc receives a FileEvent after each file. With more than one
// worker it is called from worker goroutines, one call at a time.
type ProgressFunc func(FileEvent)
