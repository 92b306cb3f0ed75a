// Command rdfgraph-tui browses a converted RDF graph in the terminal and
// toggles which types and predicates are visible.
package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dd0wney/cluso-rdfgraph/pkg/config"
	"github.com/dd0wney/cluso-rdfgraph/pkg/dataset"
	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdfio"
	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		format     string
		logFile    string
		allowLarge bool
	)

	cmd := &cobra.Command{
		Use:           "rdfgraph-tui INPUT...",
		Short:         "Interactive type and predicate selector for RDF graphs",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if allowLarge {
				cfg.View.AllowLargeGraphs = true
			}

			// The alternate screen owns stdout and stderr
			logger := logging.NewNopLogger()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				logger = logging.NewLogger(f, cfg.Log.Level)
			}

			var rf rdfio.Format
			if format != "" {
				if rf, err = rdfio.ParseFormat(format); err != nil {
					return err
				}
			}
			store, err := rdfio.NewLoader(logger).LoadFiles(args, rf)
			if err != nil {
				return err
			}

			ds, err := dataset.New(dataset.FromConfig(cfg, logger, nil))
			if err != nil {
				return err
			}
			defer ds.Close()
			if _, err := ds.Load(store); err != nil && !errors.Is(err, visibility.ErrPaletteExhausted) {
				return err
			}

			p := tea.NewProgram(initialModel(ds), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML, default ./rdfgraph.yaml)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format (ntriples, turtle)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	cmd.Flags().BoolVar(&allowLarge, "allow-large", false, "Render graphs with more types than palette colours")
	return cmd
}
