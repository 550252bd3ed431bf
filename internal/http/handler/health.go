package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Probe is a named dependency check used by HealthCheck.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthCheck reports 200 when every probe passes within two seconds, 503 otherwise.
func HealthCheck(probes ...Probe) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		checks := make(map[string]string, len(probes))
		healthy := true
		for _, p := range probes {
			if err := p.Check(ctx); err != nil {
				checks[p.Name] = "unavailable"
				healthy = false
				continue
			}
			checks[p.Name] = "ok"
		}
		if !healthy {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy", "checks": checks})
	}
}

// LivenessProbe answers 200 as long as the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Index is the landing response.
func Index(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    "govdocs",
			"version": version,
			"docs":    "/swagger/index.html",
		})
	}
}
