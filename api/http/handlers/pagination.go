package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// pageParams carries the common list/search query params. Page numbering is
// zero-based; size is capped so a single request cannot drain the table.
type pageParams struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

func (p pageParams) Limit() int  { return p.Size }
func (p pageParams) Offset() int { return p.Page * p.Size }

func parsePageParams(c *fiber.Ctx) pageParams {
	p := pageParams{
		Page:    0,
		Size:    10,
		SortBy:  strings.TrimSpace(c.Query("sortBy")),
		SortDir: strings.TrimSpace(c.Query("sortDir")),
	}
	if v := strings.TrimSpace(c.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Page = n
		}
	}
	if v := strings.TrimSpace(c.Query("size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			p.Size = n
		}
	}
	return p
}
