// Package server exposes a Dataset over HTTP: a REST surface for the
// viewer and focus extraction, GraphQL, health kinds and Prometheus
// metrics.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-rdfgraph/pkg/config"
	"github.com/dd0wney/cluso-rdfgraph/pkg/dataset"
	"github.com/dd0wney/cluso-rdfgraph/pkg/graphql"
	"github.com/dd0wney/cluso-rdfgraph/pkg/health"
	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
	"github.com/dd0wney/cluso-rdfgraph/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures a Server
type Config struct {
	Server   config.ServerConfig
	Limits   *graphql.LimitConfig // nil uses graphql.DefaultLimitConfig
	MaxDepth int                  // GraphQL query depth limit
	Logger   logging.Logger
	Metrics  *metrics.Registry
}

// Server routes HTTP requests to a Dataset
type Server struct {
	dataset   *dataset.Dataset
	health    *health.Checker
	metrics   *metrics.Registry
	logger    logging.Logger
	router    chi.Router
	config    config.ServerConfig
	startTime time.Time
}

// New builds the router for ds
func New(ds *dataset.Dataset, cfg *Config) (*Server, error) {
	if cfg == nil {
		cfg = &Config{Server: config.DefaultConfig().Server}
	}
	logger := logging.OrDefault(cfg.Logger).With(logging.Component("server"))
	s := &Server{
		dataset:   ds,
		health:    health.NewChecker(),
		metrics:   metrics.OrDefault(cfg.Metrics),
		logger:    logger,
		config:    cfg.Server,
		startTime: time.Now(),
	}

	s.health.Register(health.KindReady, "dataset", health.DatasetCheck(ds.Loaded))
	s.health.Register(health.KindHealth, "view", health.ViewCheck(ds.Snapshot))
	s.health.Register(health.KindHealth, "memory", health.MemoryCheck(health.RuntimeMemory))
	s.health.Register(health.KindLive, "process", health.Alive)

	schema, err := graphql.GenerateSchema(ds, cfg.Limits)
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql schema: %w", err)
	}
	gql := graphql.NewGraphQLHandler(schema, &graphql.HandlerConfig{
		MaxDepth: cfg.MaxDepth,
		Logger:   cfg.Logger,
	})

	s.router = s.routes(gql)
	return s, nil
}

func (s *Server) routes(gql http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(requestMetrics(s.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.health.Handler(health.KindHealth))
	r.Get("/ready", s.health.Handler(health.KindReady))
	r.Get("/live", s.health.Handler(health.KindLive))
	r.Get("/metrics", s.handleMetrics())
	r.Handle("/graphql", gql)

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", s.handleView)
		r.Get("/counts", s.handleCounts)
		r.Get("/elements", s.handleElements)
		r.Post("/selection", s.handleSelection)
		r.Post("/focus", s.handleFocus)
		r.Get("/events", s.handleEvents)
	})
	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Health returns the server's health checker
func (s *Server) Health() *health.Checker {
	return s.health
}

func (s *Server) handleMetrics() http.HandlerFunc {
	h := promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.UpdateSystemMetrics(s.startTime)
		h.ServeHTTP(w, r)
	}
}
