package rack

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"rackhost/core/storage"
	"rackhost/feature/static"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// App is the Rack convention in engine terms: a callable mapping one
// request to one response.
type App interface {
	Call(c *fiber.Ctx) error
}

// Func adapts a plain handler function to the App interface.
type Func func(c *fiber.Ctx) error

// Call implements App.
func (f Func) Call(c *fiber.Ctx) error { return f(c) }

// Deps carries the host facilities a builder may use.
type Deps struct {
	Storage storage.Client
	Logger  *zap.Logger
}

// Builder constructs an application from a resolved descriptor.
type Builder func(spec *Spec, deps Deps) (App, error)

// Builders is the registry of named application builders a descriptor's
// "app" field can refer to.
type Builders struct {
	mu sync.RWMutex
	m  map[string]Builder
}

// NewBuilders returns a registry pre-populated with the built-in
// application kinds: "static" (local directory) and "bucket" (object
// storage).
func NewBuilders() *Builders {
	b := &Builders{m: make(map[string]Builder)}
	b.m["static"] = buildStatic
	b.m["bucket"] = buildBucket
	return b
}

// Register adds a named builder. Registering an occupied name fails.
func (b *Builders) Register(name string, builder Builder) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.m[name]; ok {
		return fmt.Errorf("app builder %q already registered", name)
	}
	b.m[name] = builder
	return nil
}

// Build constructs the application named by the descriptor. An unknown
// name fails with the known names listed.
func (b *Builders) Build(spec *Spec, deps Deps) (App, error) {
	b.mu.RLock()
	builder, ok := b.m[spec.App]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown app %q (known: %v)", spec.App, b.names())
	}
	return builder(spec, deps)
}

func (b *Builders) names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.m))
	for name := range b.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildStatic(spec *Spec, deps Deps) (App, error) {
	dir := spec.StaticDir
	if dir == "" {
		dir = "public"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(spec.Root, dir)
	}
	return Func(static.Local(dir)), nil
}

func buildBucket(spec *Spec, deps Deps) (App, error) {
	if deps.Storage == nil {
		return nil, fmt.Errorf("app %q requires a storage client", spec.App)
	}
	if spec.Bucket == "" {
		return nil, fmt.Errorf("app %q requires a bucket", spec.App)
	}
	return Func(static.Bucket(deps.Storage, spec.Bucket, spec.Prefix)), nil
}
