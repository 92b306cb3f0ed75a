package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dd0wney/cluso-rdfgraph/pkg/dataset"
	"github.com/dd0wney/cluso-rdfgraph/pkg/export"
	"github.com/dd0wney/cluso-rdfgraph/pkg/focus"
	"github.com/dd0wney/cluso-rdfgraph/pkg/server"
	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
	"github.com/spf13/cobra"
)

func convertCmd(opts *options) *cobra.Command {
	var (
		output   string
		labelled bool
	)

	cmd := &cobra.Command{
		Use:   "convert INPUT...",
		Short: "Convert RDF files into a cytoscape element document",
		Long: `Convert reads every input into one store, converts it and writes the
element document with every type and predicate selected. An output path
ending in .sz is snappy-compressed. Without --output the JSON goes to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			ds, _, err := a.loaded(args)
			if ds != nil {
				defer ds.Close()
			}
			if err != nil {
				return err
			}

			doc, err := ds.Document(labelled)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			return writeDocument(cmd.OutOrStdout(), output, doc)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.json, or .sz for snappy)")
	cmd.Flags().BoolVar(&labelled, "labelled", false, "Show labels on nodes and edges")
	return cmd
}

func countsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "counts INPUT...",
		Short: "Print the type and predicate selector entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			ds, snap, err := a.loaded(args)
			if ds != nil {
				defer ds.Close()
			}
			if err != nil && !errors.Is(err, visibility.ErrPaletteExhausted) {
				return err
			}

			out := cmd.OutOrStdout()
			printCounts(out, "Types", snap.Types)
			printCounts(out, "Predicates", snap.Predicates)
			if untyped := snap.State.Graph.GetStatistics().UntypedNodes; untyped > 0 {
				fmt.Fprintf(out, "\n%d node(s) without rdf:type\n", untyped)
			}
			return nil
		},
	}
}

func viewCmd(opts *options) *cobra.Command {
	var (
		types      []string
		predicates []string
		output     string
		labelled   bool
	)

	cmd := &cobra.Command{
		Use:   "view INPUT...",
		Short: "Apply a type and predicate selection and report what stays visible",
		Long: `View selects the given types and predicates (full IRIs or prefix:name
tokens). A selector whose flag is absent keeps everything selected; an
explicitly empty one, e.g. --type "", hides everything it governs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			ds, snap, err := a.loaded(args)
			if ds != nil {
				defer ds.Close()
			}
			if err != nil {
				return err
			}

			ev := visibility.SelectionEvent{
				Types:      visibility.IRIs(snap.Types),
				Predicates: visibility.IRIs(snap.Predicates),
			}
			if cmd.Flags().Changed("type") {
				ev.Types = a.expandAll(nonEmpty(types))
			}
			if cmd.Flags().Changed("predicate") {
				ev.Predicates = a.expandAll(nonEmpty(predicates))
			}
			snap, err = ds.Apply(ev)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			g := snap.State.Graph
			fmt.Fprintf(out, "nodes: %d/%d visible\n", snap.View.VisibleNodes(), g.NodeCount())
			fmt.Fprintf(out, "edges: %d/%d visible\n", snap.View.VisibleEdges(), g.EdgeCount())
			for _, d := range snap.View.Diagnostics {
				fmt.Fprintf(out, "warning: %v\n", d)
			}
			if output == "" {
				return nil
			}
			doc, err := ds.Document(labelled)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			return export.WriteFile(output, doc)
		},
	}

	cmd.Flags().StringArrayVarP(&types, "type", "t", nil, "Selected rdf:type (repeatable)")
	cmd.Flags().StringArrayVarP(&predicates, "predicate", "p", nil, "Selected edge predicate (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Also write the element document (.json, or .sz for snappy)")
	cmd.Flags().BoolVar(&labelled, "labelled", false, "Show labels on nodes and edges")
	return cmd
}

func focusCmd(opts *options) *cobra.Command {
	var (
		seeds    []string
		each     bool
		output   string
		labelled bool
	)

	cmd := &cobra.Command{
		Use:   "focus INPUT...",
		Short: "Extract the one-hop neighbourhood of seed resources",
		Long: `Focus keeps the triples whose subject is a seed or whose object is a
seed resource, and prints them as N-Triples. With --output the converted
subgraph is written as an element document instead. With --each every seed
is focused on separately and a summary line is printed per seed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(seeds) == 0 {
				return errors.New("at least one --seed is required")
			}
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			ds, _, err := a.loaded(args)
			if ds != nil {
				defer ds.Close()
			}
			if err != nil && !errors.Is(err, visibility.ErrPaletteExhausted) {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			expanded := a.expandAll(seeds)
			out := cmd.OutOrStdout()

			switch {
			case each:
				return focusEach(ctx, out, ds, expanded)
			case output != "":
				_, doc, err := ds.FocusDocument(ctx, expanded, labelled)
				if err != nil {
					return err
				}
				return export.WriteFile(output, doc)
			default:
				store, err := ds.Store()
				if err != nil {
					return err
				}
				for _, t := range focus.Focus(store, expanded).Triples() {
					fmt.Fprintln(out, t.String())
				}
				return nil
			}
		},
	}

	cmd.Flags().StringArrayVarP(&seeds, "seed", "s", nil, "Seed IRI, prefix:name or _:blank (repeatable)")
	cmd.Flags().BoolVar(&each, "each", false, "Focus on every seed separately")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the converted subgraph as an element document")
	cmd.Flags().BoolVar(&labelled, "labelled", false, "Show labels on nodes and edges")
	return cmd
}

func focusEach(ctx context.Context, out io.Writer, ds *dataset.Dataset, seeds []string) error {
	sets := make([][]string, len(seeds))
	for i, s := range seeds {
		sets[i] = []string{s}
	}
	sessions, err := ds.FocusMany(ctx, sets)
	if err != nil {
		return err
	}
	for i, s := range sessions {
		fmt.Fprintf(out, "%s\t%d triples\t%d nodes\t%d edges\n",
			seeds[i], s.Triples, s.Graph.NodeCount(), s.Graph.EdgeCount())
	}
	return nil
}

func queryCmd(opts *options) *cobra.Command {
	var seeds []string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the SPARQL CONSTRUCT query for a focus on seed IRIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			q, err := focus.BuildQuery(a.expandAll(seeds))
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), q)
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&seeds, "seed", "s", nil, "Seed IRI or prefix:name (repeatable)")
	return cmd
}

func serveCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [INPUT...]",
		Short: "Serve the dataset over HTTP",
		Long: `Serve exposes the dataset through REST, GraphQL, health checks and
Prometheus metrics. SIGHUP re-reads the inputs; SIGINT and SIGTERM drain
in-flight requests and stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ds, err := a.openDataset()
			if err != nil {
				return err
			}
			defer ds.Close()

			reload := func() error {
				if len(args) == 0 {
					return nil
				}
				_, err := a.load(ds, args)
				if errors.Is(err, visibility.ErrPaletteExhausted) {
					// Data is loaded; the selection endpoints report the styling error
					return nil
				}
				return err
			}
			if err := reload(); err != nil {
				return err
			}

			srv, err := server.New(ds, &server.Config{
				Server:  a.cfg.Server,
				Logger:  a.logger,
				Metrics: a.metrics,
			})
			if err != nil {
				return err
			}
			gs := server.NewGracefulServer(&a.cfg.Server, srv, a.logger)
			gs.SetReloadFunc(reload)
			return gs.Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func writeDocument(stdout io.Writer, path string, doc *export.Document) error {
	if path == "" {
		return export.Write(stdout, doc, false)
	}
	return export.WriteFile(path, doc)
}

func printCounts(out io.Writer, title string, counts []visibility.Count) {
	fmt.Fprintln(out, title)
	for _, c := range counts {
		fmt.Fprintf(out, "  %s\n", c.Description())
	}
}

// nonEmpty drops blank flag values so --type "" selects nothing
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
