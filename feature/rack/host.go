package rack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"rackhost/core/options"
	"rackhost/core/registry"
	"rackhost/core/server"
	"rackhost/core/storage"

	"go.uber.org/zap"
)

// Host ties the pieces together: the server registry, the application
// builders and the storage client hosted applications may serve assets
// from. It provides the two entry points of the system: Run
// (construct-or-reuse a server and mount an application under it) and
// Mount (mount onto an existing server).
type Host struct {
	registry *registry.Registry
	builders *Builders
	storage  storage.Client
	logger   *zap.Logger
}

// NewHost creates a host. The storage client may be nil when no hosted
// application uses the bucket app kind.
func NewHost(reg *registry.Registry, builders *Builders, store storage.Client, log *zap.Logger) *Host {
	return &Host{registry: reg, builders: builders, storage: store, logger: log}
}

// Registry exposes the server registry.
func (h *Host) Registry() *registry.Registry { return h.registry }

// Run constructs or reuses the server registered under name, mounts the
// application described by mopts, and starts the server when the server
// options ask for auto-start. The server is returned in all success
// cases.
func (h *Host) Run(ctx context.Context, name string, sopts options.ServerOptions, mopts options.MountOptions) (*server.Server, error) {
	srv := h.registry.Server(name, sopts)
	if err := h.Mount(srv, mopts); err != nil {
		return nil, err
	}
	if sopts.AutoStart && !srv.Started() {
		if err := srv.Start(ctx); err != nil {
			return nil, err
		}
	}
	return srv, nil
}

// Mount resolves the application and registers it on the server at the
// context path. Resolution order: a pre-built handler in the options
// wins; otherwise the rackup descriptor is loaded and parsed exactly
// once and its builder invoked. The initializer side effects (root and
// environment variables, relative URL root for non-root paths, optional
// chdir) happen before registration, the init callback after resolution.
func (h *Host) Mount(srv *server.Server, mopts options.MountOptions) error {
	handler := mopts.App
	root := mopts.Root
	env := mopts.Env
	var extra map[string]string

	if handler == nil {
		spec, err := h.loadSpec(mopts)
		if err != nil {
			return err
		}
		if spec.Path != "" && (mopts.Path == "" || mopts.Path == "/") {
			mopts.Path = spec.Path
		}
		root = spec.Root
		if spec.Env != "" {
			env = spec.Env
		}
		extra = spec.EnvVars

		app, err := h.builders.Build(spec, Deps{Storage: h.storage, Logger: h.logger})
		if err != nil {
			return err
		}
		handler = app.Call
	}

	init, err := NewInitializer(root, env, server.NormalizePath(mopts.Path))
	if err != nil {
		return err
	}
	if err := applyExtraEnv(extra); err != nil {
		return err
	}
	if err := init.Apply(mopts.Chdir); err != nil {
		return err
	}
	if mopts.Init != nil {
		if err := mopts.Init(); err != nil {
			return fmt.Errorf("init callback: %w", err)
		}
	}

	return srv.MountHandler(handler, mopts)
}

// loadSpec locates and parses the rackup descriptor. An explicit relative
// rackup path is resolved against the mount root; with no explicit path
// the descriptor defaults to <root>/rackup.yaml. Descriptor settings fill
// in whatever the mount options left unset.
func (h *Host) loadSpec(mopts options.MountOptions) (*Spec, error) {
	path := mopts.Rackup
	if path == "" {
		path = filepath.Join(mopts.Root, DefaultRackup)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(mopts.Root, path)
	}

	spec, err := LoadSpec(path)
	if err != nil {
		return nil, err
	}
	if spec.StaticDir == "" {
		spec.StaticDir = mopts.StaticDir
	}
	return spec, nil
}

func applyExtraEnv(vars map[string]string) error {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := os.Setenv(k, vars[k]); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}
