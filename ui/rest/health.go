package rest

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
)

// Check probes one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

type Health struct {
	Version string
	Checks  map[string]Check
}

func InitRestHealth(app fiber.Router, version string, checks map[string]Check) Health {
	handler := Health{Version: version, Checks: checks}
	app.Get("/health", handler.GetStatus)
	return handler
}

func (h *Health) GetStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	status := fiber.StatusOK
	components := make(map[string]string, len(h.Checks))
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			components[name] = err.Error()
			status = fiber.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	code, message := "SUCCESS", "Service healthy"
	if status != fiber.StatusOK {
		code, message = "SERVICE_UNAVAILABLE", "One or more dependencies are unhealthy"
	}
	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    code,
		Message: message,
		Results: map[string]any{
			"version":    h.Version,
			"components": components,
		},
	})
}
