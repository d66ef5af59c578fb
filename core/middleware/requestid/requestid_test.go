package requestid_test

import (
	"net/http/httptest"
	"testing"

	"rackhost/core/middleware/requestid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignsID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/", func(c *fiber.Ctx) error {
		rid, _ := c.Locals(requestid.LocalsKey).(string)
		return c.SendString(rid)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(requestid.HeaderName))
}

func TestReusesIncomingID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/", func(c *fiber.Ctx) error { return nil })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(requestid.HeaderName, "upstream-id")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "upstream-id", resp.Header.Get(requestid.HeaderName))
}

func TestCustomHeader(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New(requestid.Config{Header: "X-Trace-Id"}))
	app.Get("/", func(c *fiber.Ctx) error { return nil })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-Id"))
}
