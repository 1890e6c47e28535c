package httpx

import "github.com/gofiber/fiber/v2"

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Page holds validated pagination params from the query string.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func ParsePage(c *fiber.Ctx) Page {
	page := c.QueryInt("page", defaultPage)
	if page < 1 {
		page = defaultPage
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Page{Page: page, Limit: limit}
}
