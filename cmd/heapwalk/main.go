// ABOUTME: Entry point of the heapwalk CLI
// ABOUTME: Wires configuration and logging, then dispatches to subcommands

// heapwalk validates and renders heap snapshots.
//
// Usage:
//
//	heapwalk check SNAPSHOT [--config=<file>] [--paths] [--abort]
//	heapwalk dump SNAPSHOT -o <out.dot> [--config=<file>]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/prateek/heapwalk"
	"github.com/prateek/heapwalk/internal/config"
)

var rootFlags struct {
	configPath string
}

// cfg is loaded before any subcommand runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "heapwalk",
	Short: "Validate and render heap object graphs",
	Long: "heapwalk walks the object graph of a heap snapshot from its roots,\n" +
		"checking every reachable object and reference, and can export the\n" +
		"graph in Graphviz DOT format.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "Path to YAML config file")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.Version = heapwalk.Version
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	cfg = c
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()})
	slog.SetDefault(slog.New(handler))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
