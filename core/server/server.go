package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"rackhost/core/metrics"
	"rackhost/core/middleware/requestid"
	"rackhost/core/options"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyStarted is returned by Start on a running server.
	ErrAlreadyStarted = errors.New("server already started")
	// ErrAlreadyMounted is returned when a context path is mounted twice.
	ErrAlreadyMounted = errors.New("path already mounted")
	// ErrNotMounted is returned by Unmount for a path that was never mounted.
	ErrNotMounted = errors.New("path not mounted")
)

// Listener describes a bound engine listener.
type Listener struct {
	Host string
	Port int
	Type string // "http" or "https"
}

// Server wraps one embedded Fiber engine: it translates options into the
// engine configuration, owns the mount table, and manages start/stop. All
// HTTP work (parsing, connection handling, worker scheduling) belongs to
// the engine.
type Server struct {
	name   string
	opts   options.ServerOptions
	app    *fiber.App
	logger *zap.Logger

	mu        sync.Mutex
	mounts    map[string]*mount
	order     []string // mount paths, longest first
	listeners []Listener
	started   bool

	ready     chan struct{}
	readyOnce sync.Once
	listenErr chan error
}

type mount struct {
	path    string
	handler fiber.Handler
}

// New builds a server from options. A pre-built engine configuration in
// opts.Config is used as the base; tuning values are applied on top, and
// the startup banner is always suppressed in favour of structured logs.
func New(opts options.ServerOptions, log *zap.Logger) *Server {
	cfg := fiber.Config{}
	if opts.Config != nil {
		cfg = *opts.Config
	}
	cfg.DisableStartupMessage = true
	cfg.AppName = opts.Name
	opts.Tuning.Apply(&cfg)

	s := &Server{
		name:      opts.Name,
		opts:      opts,
		logger:    log.With(zap.String("server", opts.Name)),
		mounts:    make(map[string]*mount),
		ready:     make(chan struct{}),
		listenErr: make(chan error, 1),
	}

	app := fiber.New(cfg)
	app.Hooks().OnListen(func(ld fiber.ListenData) error {
		port, err := strconv.Atoi(ld.Port)
		if err != nil {
			return fmt.Errorf("listener port %q: %w", ld.Port, err)
		}
		typ := "http"
		if ld.TLS {
			typ = "https"
		}
		s.mu.Lock()
		s.listeners = append(s.listeners, Listener{Host: ld.Host, Port: port, Type: typ})
		s.mu.Unlock()
		s.readyOnce.Do(func() { close(s.ready) })
		return nil
	})

	app.Use(requestid.New())
	if opts.Metrics {
		if opts.MetricsPath == "" {
			opts.MetricsPath = "/metrics"
		}
		m := metrics.New(opts.Name)
		app.Use(m.Middleware())
		app.Get(opts.MetricsPath, m.Handler())
	}
	app.Use(s.dispatch)

	s.app = app
	return s
}

// Name returns the registry name of the server.
func (s *Server) Name() string { return s.name }

// App exposes the underlying engine, mainly for in-process testing via
// app.Test.
func (s *Server) App() *fiber.App { return s.app }

// Start asks the engine to listen and returns once the listener is bound
// (or binding failed). Starting a started server fails with
// ErrAlreadyStarted.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	go func() {
		s.listenErr <- s.app.Listen(addr)
	}()

	select {
	case <-s.ready:
	case err := <-s.listenErr:
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		if err == nil {
			err = errors.New("engine stopped before binding")
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
		return ctx.Err()
	}

	for _, l := range s.Listeners() {
		s.logger.Info("listener bound",
			zap.String("host", l.Host),
			zap.Int("port", l.Port),
			zap.String("type", l.Type),
		)
	}
	return nil
}

// Stop shuts the engine down, honoring the context deadline. Stopping a
// never-started server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	s.logger.Info("stopping server")
	return s.app.ShutdownWithContext(ctx)
}

// Started reports whether the server is currently listening.
func (s *Server) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Listeners returns the bound listeners, one entry per engine listener.
// Empty until the server has started.
func (s *Server) Listeners() []Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}
