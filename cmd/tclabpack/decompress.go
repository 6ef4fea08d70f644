package main

import (
	"fmt"
	"log/slog"

	"github.com/BadgerOps/tclabpack/internal/codec"
	"github.com/BadgerOps/tclabpack/internal/engine"
	"github.com/spf13/cobra"
)

var (
	decompressFolder string
	decompressCodec  string
	decompressOutput string
	decompressNoKeep bool
)

func newDecompressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decompress",
		Short: "Restore every compressed file in a folder",
		Long: `Restore each .zst, .xz and .gz file in --folder into --output, which is
created if needed. The codec of each file is taken from its suffix; --codec
restricts the search to one suffix. Compressed files are kept unless
--no-keep is given.`,
		Example: `  tclabpack decompress
  tclabpack decompress --folder output --output descomp
  tclabpack decompress --codec gzip --no-keep`,
		Args: cobra.NoArgs,
		RunE: decompressRun,
	}

	cmd.Flags().StringVar(&decompressFolder, "folder", "output", "folder containing compressed files")
	cmd.Flags().StringVar(&decompressCodec, "codec", "", "only restore files of this codec")
	cmd.Flags().StringVar(&decompressOutput, "output", engine.DefaultOutputFolder, "destination folder")
	cmd.Flags().BoolVar(&decompressNoKeep, "no-keep", false, "remove compressed files after restoring")

	return cmd
}

func decompressRun(cmd *cobra.Command, args []string) error {
	log := slog.Default()

	if globalRegistry == nil {
		return fmt.Errorf("codec registry not initialized")
	}

	flags := cmd.Flags()
	dc := globalCfg.Decompress
	if !flags.Changed("folder") {
		decompressFolder = dc.Folder
	}
	if !flags.Changed("codec") {
		decompressCodec = dc.Codec
	}
	if !flags.Changed("output") {
		decompressOutput = dc.OutputDir
	}
	if !flags.Changed("no-keep") {
		decompressNoKeep = !dc.KeepCompressed
	}

	var filter *codec.Codec
	if decompressCodec != "" {
		c, err := codec.ParseCodec(decompressCodec)
		if err != nil {
			return err
		}
		filter = &c
	}

	log.Debug("decompress request",
		"folder", decompressFolder,
		"filter", decompressCodec,
		"output", decompressOutput,
		"keep", !decompressNoKeep,
	)

	mgr := engine.NewManager(globalRegistry, globalStore, logger,
		engine.WithProgress(progressPrinter(cmd)),
	)

	report, err := mgr.DecompressFolder(cmd.Context(), engine.DecompressOptions{
		Folder:           decompressFolder,
		CodecFilter:      filter,
		RetainCompressed: !decompressNoKeep,
		OutputFolder:     decompressOutput,
	})
	if report != nil && !quiet {
		printBatchReport(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return fmt.Errorf("decompression failed: %w", err)
	}

	return nil
}
