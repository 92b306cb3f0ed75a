package focus

import (
	"context"
	"time"

	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
	"github.com/dd0wney/cluso-rdfgraph/pkg/metrics"
	"github.com/dd0wney/cluso-rdfgraph/pkg/parallel"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
)

// ExtractorConfig configures an Extractor
type ExtractorConfig struct {
	Workers int               // worker goroutines for FocusMany, default 4
	Logger  logging.Logger    // defaults to a no-op logger
	Metrics *metrics.Registry // nil disables metrics
}

// Extractor runs focus extractions with logging and metrics, and fans
// independent extractions out over a worker pool.
type Extractor struct {
	pool    *parallel.WorkerPool
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewExtractor creates an extractor. Close releases its workers.
func NewExtractor(config *ExtractorConfig) (*Extractor, error) {
	if config == nil {
		config = &ExtractorConfig{}
	}
	workers := config.Workers
	if workers <= 0 {
		workers = 4
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	pool, err := parallel.NewWorkerPool(workers, logger)
	if err != nil {
		return nil, err
	}
	return &Extractor{
		pool:    pool,
		logger:  logger.With(logging.Component("focus")),
		metrics: config.Metrics,
	}, nil
}

// Close stops the worker pool
func (e *Extractor) Close() {
	e.pool.Close()
}

// Extract runs Focus and records it
func (e *Extractor) Extract(ctx context.Context, store *rdf.Store, seeds []string) (*rdf.Store, error) {
	if err := ctx.Err(); err != nil {
		e.record(err, 0, 0)
		return nil, err
	}
	start := time.Now()
	out := Focus(store, seeds)
	elapsed := time.Since(start)
	e.record(nil, elapsed, out.Len())
	e.logger.Debug("focus extracted",
		logging.Seeds(len(seeds)),
		logging.Triples(out.Len()),
		logging.Latency(elapsed),
	)
	return out, nil
}

// FocusMany extracts one subgraph per seed set, concurrently, and returns
// them in the order of seedSets.
func (e *Extractor) FocusMany(ctx context.Context, store *rdf.Store, seedSets [][]string) ([]*rdf.Store, error) {
	timer := logging.StartTimer(e.logger, "focus batch finished", logging.Int("sets", len(seedSets)))
	out, err := parallel.Map(ctx, e.pool, seedSets, func(ctx context.Context, seeds []string) (*rdf.Store, error) {
		return e.Extract(ctx, store, seeds)
	})
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	timer.End()
	return out, nil
}

func (e *Extractor) record(err error, d time.Duration, triples int) {
	if e.metrics != nil {
		e.metrics.RecordFocus(err, d, triples)
	}
}
