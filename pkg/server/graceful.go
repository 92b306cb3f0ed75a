package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-rdfgraph/pkg/config"
	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
)

// DefaultShutdownTimeout bounds how long in-flight requests may drain
const DefaultShutdownTimeout = 30 * time.Second

// ReloadFunc reloads the served dataset, typically from its input files
type ReloadFunc func() error

// GracefulServer wraps an HTTP server with signal handling: SIGINT and
// SIGTERM drain and stop it, SIGHUP reloads the dataset.
type GracefulServer struct {
	server       *http.Server
	logger       logging.Logger
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	reloadFn     ReloadFunc
	reloadMu     sync.RWMutex
}

// NewGracefulServer creates a server for handler using the address and
// timeouts of cfg. A nil cfg uses the defaults.
func NewGracefulServer(cfg *config.ServerConfig, handler http.Handler, logger logging.Logger) *GracefulServer {
	if cfg == nil {
		cfg = &config.DefaultConfig().Server
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	defaults := config.DefaultConfig().Server
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = defaults.ReadTimeout
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaults.WriteTimeout
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:           cfg.Addr,
			Handler:        handler,
			ReadTimeout:    readTimeout,
			WriteTimeout:   writeTimeout,
			IdleTimeout:    120 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		logger:     logger.With(logging.Component("http")),
		shutdownCh: make(chan struct{}),
	}
}

// Start listens on the configured address and serves until Shutdown
func (gs *GracefulServer) Start() error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	return gs.Serve(ln)
}

// Serve serves on ln until Shutdown. It also installs the signal handlers.
func (gs *GracefulServer) Serve(ln net.Listener) error {
	stop := gs.handleSignals()
	defer stop()

	gs.logger.Info("starting HTTP server", logging.String("addr", ln.Addr().String()))
	if err := gs.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits up to timeout for
// in-flight requests. Only the first call has an effect.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("initiating graceful shutdown", logging.Duration("timeout", timeout))
		if err = gs.server.Shutdown(ctx); err != nil {
			gs.logger.Error("shutdown failed", logging.Error(err))
			return
		}
		gs.logger.Info("server shutdown complete")
	})
	return err
}

// handleSignals runs until the returned stop func is called
func (gs *GracefulServer) handleSignals() (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					gs.logger.Info("received SIGHUP, reloading dataset")
					_ = gs.Reload()
				default:
					gs.logger.Info("received signal, shutting down", logging.String("signal", sig.String()))
					_ = gs.Shutdown(DefaultShutdownTimeout)
				}
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetReloadFunc sets the function SIGHUP and Reload call
func (gs *GracefulServer) SetReloadFunc(fn ReloadFunc) {
	gs.reloadMu.Lock()
	defer gs.reloadMu.Unlock()
	gs.reloadFn = fn
}

// Reload runs the reload function. The previous dataset keeps serving
// when it fails.
func (gs *GracefulServer) Reload() error {
	gs.reloadMu.RLock()
	reloadFn := gs.reloadFn
	gs.reloadMu.RUnlock()

	if reloadFn == nil {
		gs.logger.Warn("reload requested, but no reload function configured")
		return nil
	}

	timer := logging.StartTimer(gs.logger, "dataset reload")
	if err := reloadFn(); err != nil {
		timer.EndError(err)
		return err
	}
	timer.End()
	return nil
}
