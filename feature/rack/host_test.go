package rack_test

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"rackhost/core/options"
	"rackhost/core/registry"
	"rackhost/feature/rack"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHost(t *testing.T, builders *rack.Builders) *rack.Host {
	t.Helper()
	if builders == nil {
		builders = rack.NewBuilders()
	}
	return rack.NewHost(registry.New(zap.NewNop()), builders, nil, zap.NewNop())
}

func TestMountPrebuiltApp(t *testing.T) {
	host := newTestHost(t, nil)
	srv := host.Registry().Server("web", options.ServerOptions{})

	mopts := options.DefaultMount()
	mopts.Root = t.TempDir()
	mopts.App = func(c *fiber.Ctx) error { return c.SendString("prebuilt") }

	require.NoError(t, host.Mount(srv, mopts))

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "prebuilt", string(body))
}

func TestMountLoadsRackupExactlyOnce(t *testing.T) {
	builders := rack.NewBuilders()
	builds := 0
	require.NoError(t, builders.Register("counting", func(spec *rack.Spec, deps rack.Deps) (rack.App, error) {
		builds++
		return rack.Func(func(c *fiber.Ctx) error { return c.SendString("built") }), nil
	}))

	dir := t.TempDir()
	writeRackup(t, dir, "app: counting\n")

	host := newTestHost(t, builders)
	srv := host.Registry().Server("web", options.ServerOptions{})

	mopts := options.DefaultMount()
	mopts.Root = dir
	require.NoError(t, host.Mount(srv, mopts))

	assert.Equal(t, 1, builds)

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "built", string(body))
}

func TestMountMissingRackupFails(t *testing.T) {
	host := newTestHost(t, nil)
	srv := host.Registry().Server("web", options.ServerOptions{})

	mopts := options.DefaultMount()
	mopts.Root = t.TempDir() // no rackup.yaml inside

	require.Error(t, host.Mount(srv, mopts))
	assert.Empty(t, srv.Mounts())
}

func TestMountDescriptorPathAndEnvSideEffect(t *testing.T) {
	t.Setenv(rack.EnvRelativeURLRoot, "")
	t.Setenv(rack.EnvBaseURI, "")
	t.Setenv(rack.EnvRoot, "")
	t.Setenv(rack.EnvEnvironment, "")

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(dir+"/public", 0o755))
	require.NoError(t, os.WriteFile(dir+"/public/index.html", []byte("<html>hi</html>"), 0o644))
	writeRackup(t, dir, "app: static\npath: /docs\nenv: production\n")

	host := newTestHost(t, nil)
	srv := host.Registry().Server("web", options.ServerOptions{})

	mopts := options.DefaultMount()
	mopts.Root = dir
	require.NoError(t, host.Mount(srv, mopts))

	// The descriptor's context path won, and the relative URL root was
	// exported for the hosted application.
	assert.Equal(t, []string{"/docs"}, srv.Mounts())
	assert.Equal(t, "/docs", os.Getenv(rack.EnvRelativeURLRoot))
	assert.Equal(t, "production", os.Getenv(rack.EnvEnvironment))

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/docs/index.html", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "<html>hi</html>", string(body))
}

func TestMountInitCallback(t *testing.T) {
	t.Setenv(rack.EnvRoot, "")
	t.Setenv(rack.EnvEnvironment, "")

	host := newTestHost(t, nil)
	srv := host.Registry().Server("web", options.ServerOptions{})

	called := false
	mopts := options.DefaultMount()
	mopts.Root = t.TempDir()
	mopts.App = func(c *fiber.Ctx) error { return nil }
	mopts.Init = func() error { called = true; return nil }

	require.NoError(t, host.Mount(srv, mopts))
	assert.True(t, called)
}

func TestRunConstructsMountsAndAutoStarts(t *testing.T) {
	t.Setenv(rack.EnvRoot, "")
	t.Setenv(rack.EnvEnvironment, "")

	host := newTestHost(t, nil)

	sopts := options.DefaultServer()
	sopts.Host = "127.0.0.1"
	sopts.Port = 0
	sopts.AutoStart = true

	mopts := options.DefaultMount()
	mopts.Root = t.TempDir()
	mopts.App = func(c *fiber.Ctx) error { return c.SendString("up") }

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv, err := host.Run(ctx, "web", sopts, mopts)
	require.NoError(t, err)
	defer host.Registry().Shutdown(context.Background())

	assert.True(t, srv.Started())
	require.Len(t, srv.Listeners(), 1)
	assert.Positive(t, srv.Listeners()[0].Port)

	// Run with the same name reuses the instance.
	mopts2 := options.DefaultMount()
	mopts2.Root = mopts.Root
	mopts2.Path = "/second"
	mopts2.App = func(c *fiber.Ctx) error { return c.SendString("two") }
	again, err := host.Run(ctx, "web", options.ServerOptions{}, mopts2)
	require.NoError(t, err)
	assert.Same(t, srv, again)
}

func TestBuildersUnknownApp(t *testing.T) {
	builders := rack.NewBuilders()

	_, err := builders.Build(&rack.Spec{App: "ghost"}, rack.Deps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
	assert.Contains(t, err.Error(), "static")
}

func TestBuildersDuplicateRegistration(t *testing.T) {
	builders := rack.NewBuilders()
	err := builders.Register("static", func(*rack.Spec, rack.Deps) (rack.App, error) { return nil, nil })
	require.Error(t, err)
}

func TestBucketBuilderRequiresStorage(t *testing.T) {
	builders := rack.NewBuilders()
	_, err := builders.Build(&rack.Spec{App: "bucket", Bucket: "cdn"}, rack.Deps{})
	require.Error(t, err)
}
