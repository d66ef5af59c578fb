package rack_test

import (
	"os"
	"path/filepath"
	"testing"

	"rackhost/feature/rack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRackup(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, rack.DefaultRackup)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSpec(t *testing.T) {
	dir := t.TempDir()
	path := writeRackup(t, dir, `
app: bucket
env: production
path: /assets
bucket: cdn
prefix: v2
env_vars:
  FEATURE_FLAG: "on"
`)

	spec, err := rack.LoadSpec(path)

	require.NoError(t, err)
	assert.Equal(t, "bucket", spec.App)
	assert.Equal(t, "production", spec.Env)
	assert.Equal(t, "/assets", spec.Path)
	assert.Equal(t, "cdn", spec.Bucket)
	assert.Equal(t, "v2", spec.Prefix)
	assert.Equal(t, map[string]string{"FEATURE_FLAG": "on"}, spec.EnvVars)
	// Root defaults to the descriptor's directory.
	assert.Equal(t, dir, spec.Root)
}

func TestLoadSpec_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeRackup(t, dir, "static_dir: assets\n")

	spec, err := rack.LoadSpec(path)

	require.NoError(t, err)
	assert.Equal(t, "static", spec.App)
	assert.Equal(t, "assets", spec.StaticDir)
}

func TestLoadSpec_UnknownKeyFails(t *testing.T) {
	dir := t.TempDir()
	path := writeRackup(t, dir, "app: static\nservlet_class: Foo\n")

	_, err := rack.LoadSpec(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "servlet_class")
}

func TestLoadSpec_MissingFileFails(t *testing.T) {
	_, err := rack.LoadSpec(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
