package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/cluso-rdfgraph/pkg/config"
	"github.com/dd0wney/cluso-rdfgraph/pkg/dataset"
	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
	"github.com/dd0wney/cluso-rdfgraph/pkg/metrics"
	"github.com/dd0wney/cluso-rdfgraph/pkg/namespace"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdfio"
	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
)

// options are the persistent flags shared by every subcommand
type options struct {
	configPath string
	logLevel   string
	format     string
	namespaces []string
	allowLarge bool
	linkAttrs  bool
	logOutput  io.Writer
}

// app is the configuration and plumbing a subcommand runs with
type app struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	format  rdfio.Format
}

func newApp(opts *options) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	for _, raw := range opts.namespaces {
		b, err := namespace.ParseBinding(raw)
		if err != nil {
			return nil, err
		}
		cfg.Namespaces = append(cfg.Namespaces, b)
	}
	if opts.allowLarge {
		cfg.View.AllowLargeGraphs = true
	}
	if opts.linkAttrs {
		cfg.Convert.LinkAttributes = true
	}
	if opts.logLevel != "" {
		cfg.Log.Level = strings.ToLower(opts.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logging.NewLogger(opts.logOutput, cfg.Log.Level),
		metrics: metrics.NewRegistry(),
	}
	if opts.format != "" {
		if a.format, err = rdfio.ParseFormat(opts.format); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// table is the namespace table labels are shortened with
func (a *app) table() *namespace.Table {
	return a.cfg.Table()
}

// openDataset creates an empty dataset; callers must Close it
func (a *app) openDataset() (*dataset.Dataset, error) {
	return dataset.New(dataset.FromConfig(a.cfg, a.logger, a.metrics))
}

// load reads paths into ds. A styling failure is returned with the snapshot
// so callers can decide whether a view is required.
func (a *app) load(ds *dataset.Dataset, paths []string) (*visibility.Snapshot, error) {
	store, err := rdfio.NewLoader(a.logger).LoadFiles(paths, a.format)
	if err != nil {
		return nil, err
	}
	return ds.Load(store)
}

// loaded opens a dataset and loads paths into it. The dataset is returned,
// and must be closed, whenever the data was loaded, even if styling failed.
func (a *app) loaded(paths []string) (*dataset.Dataset, *visibility.Snapshot, error) {
	ds, err := a.openDataset()
	if err != nil {
		return nil, nil, err
	}
	snap, err := a.load(ds, paths)
	if snap == nil && err != nil {
		ds.Close()
		return nil, nil, err
	}
	return ds, snap, err
}

// expandAll expands prefix:name tokens against the table
func (a *app) expandAll(tokens []string) []string {
	t := a.table()
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = namespace.Expand(tok, t)
	}
	return out
}
