package registry

import (
	"context"
	"errors"
	"sort"
	"sync"

	"rackhost/core/options"
	"rackhost/core/server"

	"go.uber.org/zap"
)

// Registry maps server names to at most one server each. It is created at
// process start and torn down with Shutdown; there is no package-level
// ambient instance.
type Registry struct {
	mu      sync.Mutex
	servers map[string]*server.Server
	logger  *zap.Logger
}

// New creates an empty registry.
func New(log *zap.Logger) *Registry {
	return &Registry{
		servers: make(map[string]*server.Server),
		logger:  log,
	}
}

// Server returns the server registered under name, constructing it from
// opts on first use. On subsequent calls the existing instance is returned
// and opts are ignored.
func (r *Registry) Server(name string, opts options.ServerOptions) *server.Server {
	r.mu.Lock()
	defer r.mu.Unlock()

	if srv, ok := r.servers[name]; ok {
		return srv
	}
	opts.Name = name
	srv := server.New(opts, r.logger)
	r.servers[name] = srv
	r.logger.Info("server registered", zap.String("name", name))
	return srv
}

// Lookup returns the server registered under name, if any.
func (r *Registry) Lookup(name string) (*server.Server, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	srv, ok := r.servers[name]
	return srv, ok
}

// Names returns the registered server names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.servers))
	for name := range r.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shutdown stops every registered server, collecting errors. The registry
// is empty afterwards.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	servers := make([]*server.Server, 0, len(r.servers))
	for _, srv := range r.servers {
		servers = append(servers, srv)
	}
	r.servers = make(map[string]*server.Server)
	r.mu.Unlock()

	var errs []error
	for _, srv := range servers {
		if err := srv.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
