package rack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Environment variable names of the hosting convention. Hosted
// applications read these to locate their root, pick their environment
// and resolve relative URLs.
const (
	EnvRoot            = "RACK_ROOT"
	EnvEnvironment     = "RACK_ENV"
	EnvBaseURI         = "RACK_BASE_URI"
	EnvRelativeURLRoot = "RACK_RELATIVE_URL_ROOT"
)

// Initializer prepares the process environment for a hosted application:
// root path, environment name and, for non-root context paths, the
// relative URL root. It replaces the generated pre-boot script of the
// original convention.
type Initializer struct {
	root        string
	env         string
	contextPath string
}

// NewInitializer resolves the application root to an absolute path with
// no trailing slash. The environment name defaults to "development".
func NewInitializer(root, env, contextPath string) (*Initializer, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	abs = strings.TrimRight(abs, string(os.PathSeparator))
	if abs == "" {
		abs = string(os.PathSeparator)
	}
	if env == "" {
		env = "development"
	}
	return &Initializer{root: abs, env: env, contextPath: contextPath}, nil
}

// Root returns the resolved application root.
func (i *Initializer) Root() string { return i.root }

// EnvVars returns the variables Apply will set. The relative URL root
// variables are only present for a non-root context path.
func (i *Initializer) EnvVars() map[string]string {
	vars := map[string]string{
		EnvRoot:        i.root,
		EnvEnvironment: i.env,
	}
	if len(i.contextPath) > 1 {
		vars[EnvBaseURI] = i.contextPath
		vars[EnvRelativeURLRoot] = i.contextPath
	}
	return vars
}

// Apply sets the environment variables and, when chdir is requested,
// changes the working directory to the application root. Both are
// process-global side effects.
func (i *Initializer) Apply(chdir bool) error {
	vars := i.EnvVars()
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
	if chdir {
		if err := os.Chdir(i.root); err != nil {
			return fmt.Errorf("chdir to %s: %w", i.root, err)
		}
	}
	return nil
}
