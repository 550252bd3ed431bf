package handler

import (
	"github.com/gofiber/fiber/v2"

	"govdocs/internal/service"
)

func ListActivity(svc service.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		limit, offset, err := page(c, 50)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.List(c.UserContext(), a, limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// ExportActivity downloads the recent audit trail as CSV.
func ExportActivity(svc service.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		f, err := svc.ExportCSV(c.UserContext(), a)
		if err != nil {
			return respondError(c, err)
		}
		return sendFile(c, f)
	}
}
