package handlers

import (
	"github.com/gofiber/fiber/v2"

	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

func ListLookups() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(ri.TableNames())
	}
}

// GetLookup returns the codes of one enumeration table in display order.
func GetLookup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		table, ok := ri.Tables[c.Params("table")]
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown lookup table "+c.Params("table"))
		}
		return c.JSON(table.Codes())
	}
}
