package rack

import (
	"fmt"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// DefaultRackup is the descriptor filename looked up under the application
// root when no explicit path is given.
const DefaultRackup = "rackup.yaml"

// Spec is the application descriptor loaded from a rackup file. It names
// the application kind and carries the settings its builder needs.
type Spec struct {
	// App names the builder constructing the application.
	App string `mapstructure:"app"`
	// Root is the application root directory; defaults to the directory
	// containing the descriptor.
	Root string `mapstructure:"root"`
	// Env is the application environment name.
	Env string `mapstructure:"env"`
	// Path is the context path to mount under.
	Path string `mapstructure:"path"`
	// StaticDir is the asset directory for the static app, relative to Root.
	StaticDir string `mapstructure:"static_dir"`
	// Bucket is the storage bucket for the bucket app.
	Bucket string `mapstructure:"bucket"`
	// Prefix is the object key prefix for the bucket app.
	Prefix string `mapstructure:"prefix"`
	// EnvVars are additional environment variables set before the
	// application serves requests.
	EnvVars map[string]string `mapstructure:"env_vars"`
}

// LoadSpec reads and parses a descriptor file (YAML or JSON). Unknown keys
// are rejected; load and parse errors propagate unchanged. Root defaults
// to the descriptor's directory, App to "static".
func LoadSpec(path string) (*Spec, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var spec Spec
	if err := v.Unmarshal(&spec, func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = true
	}); err != nil {
		return nil, fmt.Errorf("parse rackup %s: %w", path, err)
	}

	if spec.App == "" {
		spec.App = "static"
	}
	if spec.Root == "" {
		spec.Root = filepath.Dir(path)
	}
	return &spec, nil
}
