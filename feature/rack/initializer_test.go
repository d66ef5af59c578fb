package rack_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rackhost/feature/rack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializerEnvVars(t *testing.T) {
	dir := t.TempDir()

	init, err := rack.NewInitializer(dir+"/", "production", "/app")
	require.NoError(t, err)

	vars := init.EnvVars()
	// Trailing slash is trimmed from the root.
	assert.Equal(t, dir, vars[rack.EnvRoot])
	assert.Equal(t, "production", vars[rack.EnvEnvironment])
	assert.Equal(t, "/app", vars[rack.EnvBaseURI])
	assert.Equal(t, "/app", vars[rack.EnvRelativeURLRoot])
}

func TestInitializerRootContextOmitsBaseURI(t *testing.T) {
	init, err := rack.NewInitializer(t.TempDir(), "development", "/")
	require.NoError(t, err)

	vars := init.EnvVars()
	assert.NotContains(t, vars, rack.EnvBaseURI)
	assert.NotContains(t, vars, rack.EnvRelativeURLRoot)
	assert.Equal(t, "development", vars[rack.EnvEnvironment])
}

func TestInitializerDefaults(t *testing.T) {
	init, err := rack.NewInitializer("", "", "")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(init.Root()))
	assert.Equal(t, "development", init.EnvVars()[rack.EnvEnvironment])
}

func TestInitializerRelativeRootResolvesAbsolute(t *testing.T) {
	init, err := rack.NewInitializer(".", "test", "/")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(init.Root()))
	assert.False(t, strings.HasSuffix(init.Root(), string(os.PathSeparator)))
}

func TestInitializerApply(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(rack.EnvRoot, "")
	t.Setenv(rack.EnvEnvironment, "")
	t.Setenv(rack.EnvBaseURI, "")
	t.Setenv(rack.EnvRelativeURLRoot, "")

	init, err := rack.NewInitializer(dir, "staging", "/sub")
	require.NoError(t, err)
	require.NoError(t, init.Apply(false))

	assert.Equal(t, dir, os.Getenv(rack.EnvRoot))
	assert.Equal(t, "staging", os.Getenv(rack.EnvEnvironment))
	assert.Equal(t, "/sub", os.Getenv(rack.EnvRelativeURLRoot))
}

func TestInitializerApplyChdir(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(rack.EnvRoot, "")
	t.Setenv(rack.EnvEnvironment, "")

	init, err := rack.NewInitializer(dir, "test", "/")
	require.NoError(t, err)
	require.NoError(t, init.Apply(true))

	got, err := os.Getwd()
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, resolved, gotResolved)
}
