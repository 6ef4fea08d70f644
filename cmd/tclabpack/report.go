package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/BadgerOps/tclabpack/internal/engine"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// progressPrinter prints one line per finished file unless --quiet is set
func progressPrinter(cmd *cobra.Command) engine.ProgressFunc {
	if quiet {
		return nil
	}
	out := cmd.ErrOrStderr()
	return func(ev engine.FileEvent) {
		if ev.Err != nil {
			fmt.Fprintf(out, "[%d/%d] %s: FAILED: %v\n", ev.Index, ev.Total, filepath.Base(ev.Path), ev.Err)
			return
		}
		fmt.Fprintf(out, "[%d/%d] %s -> %s\n", ev.Index, ev.Total, filepath.Base(ev.Path), formatBytes(ev.Size))
	}
}

// printBatchReport writes the human-readable summary of a batch
func printBatchReport(out io.Writer, r *engine.BatchReport) {
	if r.Direction == engine.DirectionCompress {
		fmt.Fprintln(out, "Compression result:")
		fmt.Fprintf(out, "  Folder: %s\n", r.FolderPath)
		fmt.Fprintf(out, "  Codec: %s (level %d)\n", r.CodecName, r.Level)
		fmt.Fprintf(out, "  Pattern: %s\n", r.Pattern)
	} else {
		filter := r.CodecName
		if filter == "" {
			filter = "all"
		}
		fmt.Fprintln(out, "Decompression result:")
		fmt.Fprintf(out, "  Source folder: %s\n", r.FolderPath)
		fmt.Fprintf(out, "  Output folder: %s\n", r.OutputFolder)
		fmt.Fprintf(out, "  Codec filter: %s\n", filter)
	}

	fmt.Fprintf(out, "  Files found: %d\n", r.FilesDiscovered)
	fmt.Fprintf(out, "  Succeeded: %d\n", r.Succeeded())
	fmt.Fprintf(out, "  Failed: %d\n", r.Failed())

	if r.Direction == engine.DirectionCompress {
		fmt.Fprintf(out, "  Original size: %s bytes (%s)\n", humanize.Comma(r.TotalSourceBytes), formatBytes(r.TotalSourceBytes))
		fmt.Fprintf(out, "  Compressed size: %s bytes (%s)\n", humanize.Comma(r.TotalTargetBytes), formatBytes(r.TotalTargetBytes))
		if r.TotalSourceBytes > 0 {
			ratio := r.Ratio() * 100
			fmt.Fprintf(out, "  Overall ratio: %.1f%% (reduction %.1f%%)\n", ratio, 100-ratio)
		}
	} else {
		fmt.Fprintf(out, "  Compressed size: %s bytes (%s)\n", humanize.Comma(r.TotalSourceBytes), formatBytes(r.TotalSourceBytes))
		fmt.Fprintf(out, "  Restored size: %s bytes (%s)\n", humanize.Comma(r.TotalTargetBytes), formatBytes(r.TotalTargetBytes))
	}

	fmt.Fprintf(out, "  Total time: %.2fs\n", r.ElapsedSeconds())
	fmt.Fprintf(out, "  Inputs kept: %s\n", yesNo(r.Retained))
	fmt.Fprintf(out, "  Run ID: %s\n", r.RunID)

	if failures := r.Failures(); len(failures) > 0 {
		fmt.Fprintln(out, "  Errors:")
		for _, f := range failures {
			fmt.Fprintf(out, "    - %s: %v\n", f.Path, f.Err)
		}
	}
}

// formatBytes formats a byte count into human-readable format
func formatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
