// ABOUTME: dump subcommand rendering a heap snapshot as a DOT graph
// ABOUTME: Writes the reachable graph to the file given with -o

package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/prateek/heapwalk/dump"
	"github.com/prateek/heapwalk/graph"
	"github.com/prateek/heapwalk/heapdump"
)

var dumpFlags struct {
	output string
}

var dumpCmd = &cobra.Command{
	Use:   "dump SNAPSHOT",
	Short: "Render the reachable object graph in Graphviz DOT format",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	f := dumpCmd.Flags()
	f.StringVarP(&dumpFlags.output, "output", "o", "", "Output DOT file (required)")
	_ = dumpCmd.MarkFlagRequired("output")
}

func runDump(cmd *cobra.Command, args []string) error {
	g, err := heapdump.OpenFile(args[0])
	if err != nil {
		return err
	}
	binding := graph.NewBinding(g, cfg.Workers)
	pred := graph.NewValidator(g, cfg.Rules)

	if err := dump.DumpDot(pred, binding, 0, dumpFlags.output); err != nil {
		return err
	}

	info, err := os.Stat(dumpFlags.output)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", dumpFlags.output, humanize.Bytes(uint64(info.Size())))
	return nil
}
