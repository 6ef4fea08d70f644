package main

import (
	"fmt"
	"log/slog"

	"github.com/BadgerOps/tclabpack/internal/codec"
	"github.com/BadgerOps/tclabpack/internal/engine"
	"github.com/spf13/cobra"
)

var (
	compressFolder  string
	compressCodec   string
	compressLevel   int
	compressNoKeep  bool
	compressPattern string
	compressWorkers int
)

func newCompressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Compress every matching file in a folder",
		Long: `Compress each file in --folder that matches --pattern into its own
compressed file next to it. Matching is not recursive. Originals are kept
unless --no-keep is given, and are only removed after the compressed copy
has been fully written.

Files that fail are listed in the report; the command still succeeds. A
missing folder, an unknown codec or an unavailable backend is an error.`,
		Example: `  tclabpack compress
  tclabpack compress --folder output --codec lzma --level 9
  tclabpack compress --codec gzip --pattern "*.csv" --no-keep`,
		Args: cobra.NoArgs,
		RunE: compressRun,
	}

	cmd.Flags().StringVar(&compressFolder, "folder", "output", "folder containing files to compress")
	cmd.Flags().StringVar(&compressCodec, "codec", "", "codec: zstd, lzma or gzip (default zstd, or lzma without zstd)")
	cmd.Flags().IntVar(&compressLevel, "level", 3, "compression level")
	cmd.Flags().BoolVar(&compressNoKeep, "no-keep", false, "remove original files after compressing")
	cmd.Flags().StringVar(&compressPattern, "pattern", "*", "file pattern, e.g. \"*.csv\"")
	cmd.Flags().IntVar(&compressWorkers, "workers", 1, "number of files to compress at once")

	return cmd
}

func compressRun(cmd *cobra.Command, args []string) error {
	log := slog.Default()

	if globalRegistry == nil {
		return fmt.Errorf("codec registry not initialized")
	}

	flags := cmd.Flags()
	cc := globalCfg.Compress
	if !flags.Changed("folder") {
		compressFolder = cc.Folder
	}
	if !flags.Changed("codec") {
		compressCodec = cc.Codec
	}
	if !flags.Changed("level") {
		compressLevel = cc.Level
	}
	if !flags.Changed("no-keep") {
		compressNoKeep = !cc.KeepOriginals
	}
	if !flags.Changed("pattern") {
		compressPattern = cc.Pattern
	}
	if !flags.Changed("workers") {
		compressWorkers = cc.Workers
	}

	c := globalRegistry.DefaultCodec()
	if compressCodec != "" {
		var err error
		c, err = codec.ParseCodec(compressCodec)
		if err != nil {
			return err
		}
	}

	log.Debug("compress request",
		"folder", compressFolder,
		"codec", c.String(),
		"level", compressLevel,
		"keep", !compressNoKeep,
		"pattern", compressPattern,
	)

	mgr := engine.NewManager(globalRegistry, globalStore, logger,
		engine.WithWorkers(compressWorkers),
		engine.WithProgress(progressPrinter(cmd)),
	)

	report, err := mgr.CompressFolder(cmd.Context(), engine.CompressOptions{
		Folder:        compressFolder,
		Codec:         c,
		Level:         compressLevel,
		RetainSources: !compressNoKeep,
		Pattern:       compressPattern,
	})
	if report != nil && !quiet {
		printBatchReport(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return fmt.Errorf("compression failed: %w", err)
	}

	return nil
}
