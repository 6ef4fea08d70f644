package engine

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/BadgerOps/tclabpack/internal/transcode"
)

// transcodeFunc performs the per-file operation of a batch.
type transcodeFunc func(path string) (*transcode.Result, error)

// job pairs a path with its discovery index for ordering results.
type job struct {
	path  string
	index int
}

// indexedResult carries a FileResult back from a worker.
type indexedResult struct {
	FileResult
	index int
}

// execute runs fn over every path and returns one FileResult per path, in
// the same order. A failing file never stops the batch. Once ctx is done,
// files not yet started are recorded with ctx.Err().
func (m *Manager) execute(ctx context.Context, dir Direction, paths []string, workers int, fn transcodeFunc) []FileResult {
	if len(paths) == 0 {
		return []FileResult{}
	}

	if workers <= 1 {
		results := make([]FileResult, 0, len(paths))
		for i, path := range paths {
			fr := m.runOne(ctx, path, fn)
			m.report(dir, i, len(paths), fr)
			results = append(results, fr)
		}
		return results
	}

	jobsChan := make(chan job, len(paths))
	resultsChan := make(chan indexedResult, len(paths))

	var wg sync.WaitGroup
	var progressMu sync.Mutex

	workers = min(workers, len(paths))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobsChan {
				fr := m.runOne(ctx, j.path, fn)
				progressMu.Lock()
				m.report(dir, j.index, len(paths), fr)
				progressMu.Unlock()
				resultsChan <- indexedResult{FileResult: fr, index: j.index}
			}
		}()
	}

	for i, path := range paths {
		jobsChan <- job{path: path, index: i}
	}
	close(jobsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	collected := make([]indexedResult, 0, len(paths))
	for r := range resultsChan {
		collected = append(collected, r)
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].index < collected[j].index
	})

	results := make([]FileResult, len(collected))
	for i, r := range collected {
		results[i] = r.FileResult
	}
	return results
}

// workersFor returns the worker count for a batch. When the output of one
// candidate is itself a candidate, two workers could read and truncate the
// same file, so the batch falls back to sequential processing.
func (m *Manager) workersFor(paths []string, target func(string) (string, bool)) int {
	if m.workers <= 1 {
		return 1
	}

	candidates := make(map[string]bool, len(paths))
	for _, p := range paths {
		candidates[absPath(p)] = true
	}
	for _, p := range paths {
		t, ok := target(p)
		if !ok {
			continue
		}
		if candidates[absPath(t)] {
			m.logger.Warn("batch output collides with an input, processing sequentially",
				"file", p,
				"target", t,
			)
			return 1
		}
	}
	return m.workers
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// runOne processes a single path. The transcoder finishes writing the
// target, and any removal of the input, before it returns.
func (m *Manager) runOne(ctx context.Context, path string, fn transcodeFunc) FileResult {
	if err := ctx.Err(); err != nil {
		return FileResult{Path: path, Err: err}
	}
	res, err := fn(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	return FileResult{Path: path, Result: res}
}

// report logs the outcome of one file and forwards it to the progress hook.
func (m *Manager) report(dir Direction, index, total int, fr FileResult) {
	ev := FileEvent{
		Direction: dir,
		Index:     index + 1,
		Total:     total,
		Path:      fr.Path,
	}
	if fr.OK() {
		ev.Status = "completed"
		ev.Size = fr.Result.TargetSize
		m.logger.Info(string(dir)+" file completed",
			"index", ev.Index,
			"total", total,
			"file", filepath.Base(fr.Path),
			"source_size", fr.Result.SourceSize,
			"target_size", fr.Result.TargetSize,
		)
	} else {
		ev.Status = "failed"
		ev.Err = fr.Err
		m.logger.Error(string(dir)+" file failed",
			"index", ev.Index,
			"total", total,
			"file", filepath.Base(fr.Path),
			"error", fr.Err,
		)
	}
	if m.progress != nil {
		m.progress(ev)
	}
}
