package requestid

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	app := fiber.New()
	app.Use(New())
	app.Get("/", func(c *fiber.Ctx) error {
		id, _ := c.Locals(LocalsKey).(string)
		return c.SendString(id)
	})

	t.Run("generates an id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Header.Get(Header))
	})

	t.Run("honors an incoming id", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(Header, "trace-me-123")

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, "trace-me-123", resp.Header.Get(Header))
	})
}
