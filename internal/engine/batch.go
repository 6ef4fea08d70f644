package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/BadgerOps/tclabpack/internal/codec"
	"github.com/BadgerOps/tclabpack/internal/transcode"
)

// CompressOptions configures a folder compression batch.
type CompressOptions struct {
	Folder        string
	Codec         codec.Codec
	Level         int
	RetainSources bool
	Pattern       string // glob relative to Folder; empty means "*"
}

// DecompressOptions configures a folder decompression batch.
type DecompressOptions struct {
	Folder           string
	CodecFilter      *codec.Codec // nil searches every known suffix
	RetainCompressed bool
	OutputFolder     string // empty means DefaultOutputFolder
}

// CompressFolder compresses every regular file in opts.Folder matching
// opts.Pattern. A missing folder, a bad pattern or an unavailable codec is
// fatal; individual file failures are recorded in the report instead.
func (m *Manager) CompressFolder(ctx context.Context, opts CompressOptions) (*BatchReport, error) {
	if err := checkFolder(opts.Folder); err != nil {
		return nil, err
	}
	if err := m.registry.Require(opts.Codec); err != nil {
		return nil, err
	}

	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*"
	}

	files, err := discover(opts.Folder, []string{pattern})
	if err != nil {
		return nil, err
	}

	report := &BatchReport{
		RunID:      uuid.NewString(),
		Direction:  DirectionCompress,
		FolderPath: opts.Folder,
		CodecName:  opts.Codec.String(),
		Level:      opts.Level,
		Pattern:    pattern,
		Retained:   opts.RetainSources,
		StartedAt:  time.Now(),
	}

	m.logger.Info("compression starting",
		"run_id", report.RunID,
		"folder", opts.Folder,
		"codec", report.CodecName,
		"level", opts.Level,
		"pattern", pattern,
		"files", len(files),
		"workers", m.workers,
	)

	workers := m.workersFor(files, func(path string) (string, bool) {
		return path + opts.Codec.Ext(), true
	})

	results := m.execute(ctx, DirectionCompress, files, workers, func(path string) (*transcode.Result, error) {
		return m.transcoder.Compress(path, opts.Codec, opts.Level, opts.RetainSources)
	})
	report.finish(results, time.Since(report.StartedAt))

	m.logger.Info("compression completed",
		"run_id", report.RunID,
		"files", report.FilesDiscovered,
		"failed", report.Failed(),
		"source_bytes", report.TotalSourceBytes,
		"target_bytes", report.TotalTargetBytes,
		"duration", report.Elapsed,
	)

	m.record(report)
	return report, ctx.Err()
}

// DecompressFolder restores every compressed file in opts.Folder into
// opts.OutputFolder, which is created first. The codec of each file comes
// from its suffix; opts.CodecFilter limits discovery to one suffix.
func (m *Manager) DecompressFolder(ctx context.Context, opts DecompressOptions) (*BatchReport, error) {
	if err := checkFolder(opts.Folder); err != nil {
		return nil, err
	}

	patterns := make([]string, 0, len(codec.All))
	filterName := ""
	if opts.CodecFilter != nil {
		if err := m.registry.Require(*opts.CodecFilter); err != nil {
			return nil, err
		}
		filterName = opts.CodecFilter.String()
		patterns = append(patterns, "*"+opts.CodecFilter.Ext())
	} else {
		for _, c := range codec.All {
			patterns = append(patterns, "*"+c.Ext())
		}
	}

	output := opts.OutputFolder
	if output == "" {
		output = DefaultOutputFolder
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return nil, fmt.Errorf("creating output folder: %w", err)
	}

	files, err := discover(opts.Folder, patterns)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{
		RunID:        uuid.NewString(),
		Direction:    DirectionDecompress,
		FolderPath:   opts.Folder,
		OutputFolder: output,
		CodecName:    filterName,
		Retained:     opts.RetainCompressed,
		StartedAt:    time.Now(),
	}

	m.logger.Info("decompression starting",
		"run_id", report.RunID,
		"folder", opts.Folder,
		"output", output,
		"filter", filterName,
		"files", len(files),
		"workers", m.workers,
	)

	workers := m.workersFor(files, func(path string) (string, bool) {
		stripped, _, err := codec.StripSuffix(filepath.Base(path))
		if err != nil {
			return "", false
		}
		return filepath.Join(output, stripped), true
	})

	results := m.execute(ctx, DirectionDecompress, files, workers, func(path string) (*transcode.Result, error) {
		return m.transcoder.Decompress(path, opts.RetainCompressed, output)
	})
	report.finish(results, time.Since(report.StartedAt))

	m.logger.Info("decompression completed",
		"run_id", report.RunID,
		"files", report.FilesDiscovered,
		"failed", report.Failed(),
		"source_bytes", report.TotalSourceBytes,
		"target_bytes", report.TotalTargetBytes,
		"duration", report.Elapsed,
	)

	m.record(report)
	return report, ctx.Err()
}
