package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsePageFor(t *testing.T, target string) Page {
	t.Helper()

	var page Page
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		page = ParsePage(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	return page
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		name   string
		target string
		page   int
		limit  int
	}{
		{"defaults", "/", 1, 20},
		{"explicit", "/?page=3&limit=50", 3, 50},
		{"zero page clamps", "/?page=0&limit=0", 1, 20},
		{"negative clamps", "/?page=-2&limit=-5", 1, 20},
		{"limit capped", "/?limit=5000", 1, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := parsePageFor(t, tc.target)
			assert.Equal(t, tc.page, page.Page)
			assert.Equal(t, tc.limit, page.Limit)
		})
	}
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, Page{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, Page{Page: 3, Limit: 20}.Offset())
}
