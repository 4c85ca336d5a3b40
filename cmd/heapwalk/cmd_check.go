// ABOUTME: check subcommand validating a heap snapshot
// ABOUTME: Prints every failure, optionally with the path that retains it

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/prateek/heapwalk/graph"
	"github.com/prateek/heapwalk/heapdump"
	"github.com/prateek/heapwalk/sanity"
	"github.com/prateek/heapwalk/walk"
)

var checkFlags struct {
	paths bool
	abort bool
}

var checkCmd = &cobra.Command{
	Use:   "check SNAPSHOT",
	Short: "Validate every object and reference reachable from the roots",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.BoolVar(&checkFlags.paths, "paths", false, "Print a retention path for every failure")
	f.BoolVar(&checkFlags.abort, "abort", false, "Abort the process on the first corrupt heap, as an embedded runtime would")
}

// errCorrupt is returned when the snapshot fails validation; the failures
// themselves have already been printed.
var errCorrupt = errors.New("heap is corrupt")

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := heapdump.OpenFile(args[0])
	if err != nil {
		return err
	}
	binding := graph.NewBinding(g, cfg.Workers)
	pred := graph.NewValidator(g, cfg.Rules)
	out := cmd.OutOrStdout()

	if checkFlags.abort {
		sanity.VerifyOrAbort(pred, binding, 0)
		fmt.Fprintln(out, "heap OK")
		return nil
	}

	checker := sanity.NewChecker(pred, binding, 0)
	if err := checker.CheckRoots(); err != nil {
		return err
	}
	stats := checker.Stats()
	errs := checker.Errors()
	if len(errs) == 0 {
		fmt.Fprintf(out, "heap OK: %d objects reachable from %d roots, %s live\n",
			stats.Visited, stats.Roots, humanize.Bytes(liveBytes(g)))
		return nil
	}

	for _, e := range errs {
		fmt.Fprintln(out, e.Error())
		if checkFlags.paths {
			printPath(out, g, e)
		}
	}
	fmt.Fprintf(out, "%d errors in %d reachable objects\n", len(errs), stats.Visited)
	return errCorrupt
}

// printPath shows how the failing object or slot holder is reached.
func printPath(w io.Writer, g graph.Graph, e walk.Error) {
	var target graph.ObjID
	suffix := ""
	switch e.Kind {
	case walk.BadNode:
		target = graph.ObjID(e.Object)
	case walk.BadEdge:
		switch s := e.Slot.(type) {
		case graph.FieldSlot:
			target = s.Holder
			suffix = fmt.Sprintf(" .ptrs[%d]", s.Index)
		case graph.RootSlot:
			fmt.Fprintf(w, "    via %s\n", s)
			return
		default:
			return
		}
	}

	path, ok := graph.RetentionPath(g, target)
	if !ok {
		fmt.Fprintln(w, "    unreachable from roots")
		return
	}
	hops := make([]string, len(path.IDs))
	for i, id := range path.IDs {
		hops[i] = id.Ref().String()
	}
	fmt.Fprintf(w, "    via roots -> %s%s\n", strings.Join(hops, " -> "), suffix)
}

func liveBytes(g graph.Graph) uint64 {
	var total uint64
	g.ForEachObject(func(obj *graph.Object) {
		total += obj.Size
	})
	return total
}
