package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	historyLimit     int
	historyFailed    bool
	historyDirection string
	historyRunID     string
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded compress and decompress batches",
		Long: `Show batches recorded in the history database, newest first. Use --run to
list the individual files of one batch, including the error recorded for
each file that failed.`,
		Example: `  tclabpack history
  tclabpack history --limit 5 --direction compress
  tclabpack history --failed
  tclabpack history --run 6f1c2a1e-...`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of batches to show (0 for all)")
	cmd.Flags().BoolVar(&historyFailed, "failed", false, "show only batches with failed files")
	cmd.Flags().StringVar(&historyDirection, "direction", "", "filter by direction (compress or decompress)")
	cmd.Flags().StringVar(&historyRunID, "run", "", "show the files of one batch by run ID")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if globalStore == nil {
		return fmt.Errorf("history is disabled")
	}

	out := cmd.OutOrStdout()

	if historyRunID != "" {
		run, err := globalStore.GetBatchRun(historyRunID)
		if err != nil {
			return err
		}
		files, err := globalStore.ListBatchFiles(run.ID)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Batch %s (%s %s, %s)\n", run.RunID, run.Direction, run.Folder, run.StartTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(out, strings.Repeat("-", 70))
		for _, f := range files {
			if f.Error != "" {
				fmt.Fprintf(out, "FAIL  %s: %s\n", f.SourcePath, f.Error)
				continue
			}
			fmt.Fprintf(out, "ok    %s -> %s (%s -> %s)\n",
				f.SourcePath, f.TargetPath,
				humanize.IBytes(uint64(f.SourceSize)), humanize.IBytes(uint64(f.TargetSize)))
		}
		return nil
	}

	switch historyDirection {
	case "", "compress", "decompress":
	default:
		return fmt.Errorf("invalid direction %q: want compress or decompress", historyDirection)
	}

	runs, err := globalStore.ListBatchRuns(historyDirection, historyFailed, historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No batches recorded")
		return nil
	}

	fmt.Fprintln(out, "Batch History")
	fmt.Fprintln(out, "=============")
	fmt.Fprintln(out, "")
	fmt.Fprintf(out, "%-16s %-10s %-6s %6s %6s %10s %10s  %s\n", "Started", "Direction", "Codec", "Files", "Failed", "Source", "Target", "Run ID")
	fmt.Fprintln(out, strings.Repeat("-", 110))

	for _, r := range runs {
		codecName := r.Codec
		if codecName == "" {
			codecName = "all"
		}
		fmt.Fprintf(out, "%-16s %-10s %-6s %6d %6d %10s %10s  %s\n",
			r.StartTime.Local().Format("2006-01-02 15:04"),
			r.Direction,
			codecName,
			r.FilesDiscovered,
			r.FilesFailed,
			humanize.IBytes(uint64(r.TotalSourceBytes)),
			humanize.IBytes(uint64(r.TotalTargetBytes)),
			r.RunID,
		)
	}

	fmt.Fprintln(out, "")
	fmt.Fprintf(out, "Last batch %s\n", humanize.Time(runs[0].StartTime))
	return nil
}
