package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listAll bool

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available compression codecs",
		Long: `List the codecs usable in this build and configuration, with the suffix
each one appends. zstd is absent when the binary was built with the nozstd
tag or when it is listed under codecs.disabled in the config file.`,
		Example: `  tclabpack list
  tclabpack list --all`,
		Args: cobra.NoArgs,
		RunE: listRun,
	}

	cmd.Flags().BoolVar(&listAll, "all", false, "also show unavailable codecs")

	return cmd
}

func listRun(cmd *cobra.Command, args []string) error {
	if globalRegistry == nil {
		return fmt.Errorf("codec registry not initialized")
	}

	out := cmd.OutOrStdout()
	descs := globalRegistry.ListAvailable()
	if listAll {
		descs = globalRegistry.ListAll()
	}

	fmt.Fprintln(out, "Available codecs:")
	for _, d := range descs {
		status := ""
		if !d.Available {
			status = "  (unavailable)"
		}
		if d.Codec == globalRegistry.DefaultCodec() && d.Available {
			status = "  (default)"
		}
		fmt.Fprintf(out, "  %-6s .%-4s%s\n", d.Name, d.Suffix, status)
	}

	return nil
}
