package engine

import (
	"github.com/BadgerOps/tclabpack/internal/store"
)

// record persists a finished report. Failures are logged and never change
// the outcome of the batch.
func (m *Manager) record(r *BatchReport) {
	if m.store == nil {
		return
	}

	run := &store.BatchRun{
		RunID:            r.RunID,
		Direction:        string(r.Direction),
		Folder:           r.FolderPath,
		OutputFolder:     r.OutputFolder,
		Codec:            r.CodecName,
		Level:            r.Level,
		Pattern:          r.Pattern,
		FilesDiscovered:  r.FilesDiscovered,
		FilesFailed:      r.Failed(),
		TotalSourceBytes: r.TotalSourceBytes,
		TotalTargetBytes: r.TotalTargetBytes,
		ElapsedMillis:    r.Elapsed.Milliseconds(),
		Retained:         r.Retained,
		StartTime:        r.StartedAt,
		EndTime:          r.StartedAt.Add(r.Elapsed),
	}

	files := make([]store.BatchFile, 0, len(r.Results))
	for _, fr := range r.Results {
		f := store.BatchFile{SourcePath: fr.Path}
		if fr.OK() {
			f.TargetPath = fr.Result.TargetPath
			f.Codec = fr.Result.Codec.String()
			f.SourceSize = fr.Result.SourceSize
			f.TargetSize = fr.Result.TargetSize
			f.ElapsedMillis = fr.Result.Elapsed.Milliseconds()
		} else {
			f.Codec = r.CodecName
			f.Error = fr.Err.Error()
		}
		files = append(files, f)
	}

	if err := m.store.RecordBatch(run, files); err != nil {
		m.logger.Warn("failed to record batch in history", "run_id", r.RunID, "error", err)
	}
}
