package options

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gofiber/fiber/v2"
)

// ServerKeys is the set of option keys recognized when creating a server.
var ServerKeys = []string{
	"name", "host", "port", "auto_start", "config",
	"metrics", "metrics_path", "tuning",
}

// MountKeys is the set of option keys recognized when mounting an application.
var MountKeys = []string{
	"root", "path", "static_dir", "rackup", "app",
	"env", "dispatch", "chdir", "init",
}

// ServerOptions configures the construction of a Server.
type ServerOptions struct {
	// Name identifies the server in the process-wide registry.
	Name string `mapstructure:"name" default:"default"`
	// Host is the interface the engine binds to.
	Host string `mapstructure:"host" default:"0.0.0.0"`
	// Port is the TCP port the engine listens on.
	Port int `mapstructure:"port" default:"8080"`
	// AutoStart starts the server after a successful mount.
	AutoStart bool `mapstructure:"auto_start" default:"false"`
	// Metrics exposes a Prometheus endpoint on the server.
	Metrics bool `mapstructure:"metrics" default:"false"`
	// MetricsPath is the route for the Prometheus endpoint.
	MetricsPath string `mapstructure:"metrics_path" default:"/metrics"`
	// Tuning adjusts engine buffer and worker settings.
	Tuning Tuning `mapstructure:"tuning"`

	// Config is a pre-built engine configuration. When set it is used as the
	// base and Tuning is applied on top of it.
	Config *fiber.Config `mapstructure:"-"`
}

// MountOptions configures the mounting of an application at a context path.
type MountOptions struct {
	// Root is the application root directory.
	Root string `mapstructure:"root" default:"."`
	// Path is the context path the application is registered under.
	Path string `mapstructure:"path" default:"/"`
	// StaticDir is the static asset directory, relative to Root.
	StaticDir string `mapstructure:"static_dir" default:"public"`
	// Rackup is the application descriptor file, relative to Root.
	// Empty means "<root>/rackup.yaml".
	Rackup string `mapstructure:"rackup" default:""`
	// Env is the application environment name.
	Env string `mapstructure:"env" default:"development"`
	// Dispatch wraps the application with the host dispatch chain
	// (request IDs, request logging).
	Dispatch bool `mapstructure:"dispatch" default:"true"`
	// Chdir changes the process working directory to Root before the
	// application serves requests. Process-global, therefore opt-in.
	Chdir bool `mapstructure:"chdir" default:"false"`

	// App is a pre-built application handler. When set, no rackup
	// resolution happens.
	App fiber.Handler `mapstructure:"-"`
	// Init is invoked after the application is resolved and before it is
	// registered.
	Init func() error `mapstructure:"-"`
}

// Tuning holds engine tuning knobs. Zero values leave the engine default in
// place. These translate directly onto fiber.Config fields.
type Tuning struct {
	// Concurrency is the maximum number of concurrent connections.
	Concurrency int `mapstructure:"concurrency" default:"0"`
	// ReadBufferSize is the per-connection read buffer in bytes.
	ReadBufferSize int `mapstructure:"read_buffer_size" default:"0"`
	// WriteBufferSize is the per-connection write buffer in bytes.
	WriteBufferSize int `mapstructure:"write_buffer_size" default:"0"`
	// BodyLimit is the maximum request body size in bytes.
	BodyLimit int `mapstructure:"body_limit" default:"0"`
	// ReadTimeoutSeconds bounds reading the full request.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"0"`
	// WriteTimeoutSeconds bounds writing the full response.
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" default:"0"`
	// IdleTimeoutSeconds bounds keep-alive idle time.
	IdleTimeoutSeconds int `mapstructure:"idle_timeout_seconds" default:"0"`
	// Prefork runs the engine in child processes, one per CPU.
	Prefork bool `mapstructure:"prefork" default:"false"`
	// StreamRequestBody streams bodies instead of buffering them whole.
	StreamRequestBody bool `mapstructure:"stream_request_body" default:"false"`
	// DisableKeepalive closes connections after each response.
	DisableKeepalive bool `mapstructure:"disable_keepalive" default:"false"`
}

// Apply copies the non-zero tuning values onto an engine configuration.
func (t Tuning) Apply(cfg *fiber.Config) {
	if t.Concurrency > 0 {
		cfg.Concurrency = t.Concurrency
	}
	if t.ReadBufferSize > 0 {
		cfg.ReadBufferSize = t.ReadBufferSize
	}
	if t.WriteBufferSize > 0 {
		cfg.WriteBufferSize = t.WriteBufferSize
	}
	if t.BodyLimit > 0 {
		cfg.BodyLimit = t.BodyLimit
	}
	if t.ReadTimeoutSeconds > 0 {
		cfg.ReadTimeout = time.Duration(t.ReadTimeoutSeconds) * time.Second
	}
	if t.WriteTimeoutSeconds > 0 {
		cfg.WriteTimeout = time.Duration(t.WriteTimeoutSeconds) * time.Second
	}
	if t.IdleTimeoutSeconds > 0 {
		cfg.IdleTimeout = time.Duration(t.IdleTimeoutSeconds) * time.Second
	}
	if t.Prefork {
		cfg.Prefork = true
	}
	if t.StreamRequestBody {
		cfg.StreamRequestBody = true
	}
	if t.DisableKeepalive {
		cfg.DisableKeepalive = true
	}
}

// InvalidKeysError reports option keys outside the allowed set.
type InvalidKeysError struct {
	// Invalid are the offending keys, sorted.
	Invalid []string
	// Allowed is the full set of accepted keys, sorted.
	Allowed []string
}

func (e *InvalidKeysError) Error() string {
	return fmt.Sprintf("unrecognized option keys: %s (allowed: %s)",
		strings.Join(e.Invalid, ", "), strings.Join(e.Allowed, ", "))
}

// Merge overlays caller-supplied options on top of defaults. Every key must
// belong to the union of the defaults' keys and the recognized set; otherwise
// the merge fails with *InvalidKeysError and nothing is applied.
func Merge(opts, defaults map[string]any, recognized []string) (map[string]any, error) {
	allowed := make(map[string]struct{}, len(defaults)+len(recognized))
	for k := range defaults {
		allowed[k] = struct{}{}
	}
	for _, k := range recognized {
		allowed[k] = struct{}{}
	}

	var invalid []string
	for k := range opts {
		if _, ok := allowed[k]; !ok {
			invalid = append(invalid, k)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, &InvalidKeysError{Invalid: invalid, Allowed: sortedKeys(allowed)}
	}

	merged := make(map[string]any, len(defaults)+len(opts))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range opts {
		merged[k] = v
	}
	return merged, nil
}

// DecodeServer decodes an option map into typed server options. Unknown keys
// fail with *InvalidKeysError.
func DecodeServer(in map[string]any) (*ServerOptions, error) {
	opts := DefaultServer()
	in, cfg, err := extractConfig(in)
	if err != nil {
		return nil, err
	}
	opts.Config = cfg
	if err := decodeStrict(in, &opts, ServerKeys); err != nil {
		return nil, err
	}
	return &opts, nil
}

// DecodeMount decodes an option map into typed mount options. Unknown keys
// fail with *InvalidKeysError. The "app" and "init" keys carry function
// values and are extracted before decoding.
func DecodeMount(in map[string]any) (*MountOptions, error) {
	opts := DefaultMount()

	rest := make(map[string]any, len(in))
	for k, v := range in {
		rest[k] = v
	}
	if v, ok := rest["app"]; ok {
		h, ok := v.(fiber.Handler)
		if !ok {
			if f, isFunc := v.(func(*fiber.Ctx) error); isFunc {
				h = f
			} else {
				return nil, fmt.Errorf("option %q: expected a handler, got %T", "app", v)
			}
		}
		opts.App = h
		delete(rest, "app")
	}
	if v, ok := rest["init"]; ok {
		f, ok := v.(func() error)
		if !ok {
			return nil, fmt.Errorf("option %q: expected func() error, got %T", "init", v)
		}
		opts.Init = f
		delete(rest, "init")
	}

	if err := decodeStrict(rest, &opts, MountKeys); err != nil {
		return nil, err
	}
	return &opts, nil
}

// DefaultServer returns server options with all defaults filled in.
func DefaultServer() ServerOptions {
	return ServerOptions{
		Name:        "default",
		Host:        "0.0.0.0",
		Port:        8080,
		MetricsPath: "/metrics",
	}
}

// DefaultMount returns mount options with all defaults filled in.
func DefaultMount() MountOptions {
	return MountOptions{
		Root:      ".",
		Path:      "/",
		StaticDir: "public",
		Env:       "development",
		Dispatch:  true,
	}
}

func extractConfig(in map[string]any) (map[string]any, *fiber.Config, error) {
	v, ok := in["config"]
	if !ok {
		return in, nil, nil
	}
	rest := make(map[string]any, len(in))
	for k, val := range in {
		rest[k] = val
	}
	delete(rest, "config")

	switch c := v.(type) {
	case *fiber.Config:
		return rest, c, nil
	case fiber.Config:
		return rest, &c, nil
	default:
		return nil, nil, fmt.Errorf("option %q: expected *fiber.Config, got %T", "config", v)
	}
}

func decodeStrict(in map[string]any, out any, recognized []string) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	if len(md.Unused) > 0 {
		invalid := make([]string, 0, len(md.Unused))
		for _, k := range md.Unused {
			// Nested unused keys show up as "tuning.foo"; report the whole path.
			invalid = append(invalid, k)
		}
		sort.Strings(invalid)
		allowed := append([]string(nil), recognized...)
		sort.Strings(allowed)
		return &InvalidKeysError{Invalid: invalid, Allowed: allowed}
	}
	return nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
