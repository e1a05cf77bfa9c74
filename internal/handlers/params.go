package handlers

import (
	"strconv"

	"review-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// paramID parses a positive numeric path parameter.
func paramID(c *fiber.Ctx, name, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Invalid " + resource + " ID")
	}
	return uint(id), nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}
