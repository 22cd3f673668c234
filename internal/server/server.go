// Package server exposes a card graph engine over HTTP.
//
// The engine is not safe for concurrent use, so every handler takes the
// server mutex for the whole request. Clients subscribe to /events to learn
// when the graph file was reloaded.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cardgraph/internal/watch"
	"github.com/matzehuels/cardgraph/pkg/engine"
	"github.com/matzehuels/cardgraph/pkg/graph"
)

const (
	shutdownTimeout = 5 * time.Second
	reloadDebounce  = 100 * time.Millisecond
)

// Config holds server settings.
type Config struct {
	Engine *engine.Engine
	Logger *log.Logger
	Addr   string
	// GraphFile is re-read on POST /reload and, with Watch, whenever it
	// changes on disk.
	GraphFile string
	Watch     bool
}

// Server serves one engine.
type Server struct {
	mu     sync.Mutex
	eng    *engine.Engine
	logger *log.Logger

	addr      string
	graphFile string
	watch     bool

	notifier *notifier
}

// New creates a server. A nil logger discards output.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		eng:       cfg.Engine,
		logger:    logger,
		addr:      cfg.Addr,
		graphFile: cfg.GraphFile,
		watch:     cfg.Watch,
		notifier:  newNotifier(),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.hooks,
	)
	s.routes(r)
	return r
}

// Serve listens on the configured address and blocks until ctx is
// cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.graphFile != "" {
		eg.Go(func() error { return s.watchFile(egctx) })
	}

	eg.Go(func() error {
		s.logger.Info("listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Reload re-reads the graph file into the engine and notifies subscribers.
// A file that fails to load leaves the current graph in place.
func (s *Server) Reload() error {
	if s.graphFile == "" {
		return fmt.Errorf("no graph file configured")
	}
	g, err := graph.ReadFile(s.graphFile)
	if err != nil {
		return err
	}

	s.mu.Lock()
	err = s.eng.Load(g)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Info("graph reloaded", "file", s.graphFile, "nodes", len(g.Nodes), "edges", len(g.Edges))
	s.notifier.broadcast()
	return nil
}

// watchFile reloads the graph file whenever it changes on disk.
func (s *Server) watchFile(ctx context.Context) error {
	err := watch.File(ctx, s.graphFile, reloadDebounce, s.logger, func() {
		if err := s.Reload(); err != nil {
			s.logger.Error("reload failed", "error", err)
		}
	})
	if err != nil {
		s.logger.Error("failed to watch graph file", "file", s.graphFile, "error", err)
	}
	return nil
}
