// Command rdfgraph converts RDF into property graphs, prints selector
// counts and focus subgraphs, and serves the result over HTTP.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

const appName = "rdfgraph"

// Set by the linker
var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd(os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(logOutput io.Writer) *cobra.Command {
	opts := &options{logOutput: logOutput}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Convert RDF graphs into styled property graphs",
		Long: `rdfgraph reads N-Triples or Turtle, converts the triples into a
property graph of typed nodes and predicate edges, and renders it as a
cytoscape element document with per-type colours and visibility.

Namespaces come from rdfgraph.yaml (or --config) and --ns flags and
shorten IRIs to prefix:name labels.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML, default ./rdfgraph.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVarP(&opts.format, "format", "f", "", "Input format (ntriples, turtle); inferred from file extensions when empty")
	flags.StringArrayVar(&opts.namespaces, "ns", nil, "Extra namespace binding prefix=uri (repeatable)")
	flags.BoolVar(&opts.allowLarge, "allow-large", false, "Render graphs with more types than palette colours")
	flags.BoolVar(&opts.linkAttrs, "link-attributes", false, "Keep resource-valued predicates as node attributes too")

	cmd.AddCommand(
		convertCmd(opts),
		countsCmd(opts),
		viewCmd(opts),
		focusCmd(opts),
		queryCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
