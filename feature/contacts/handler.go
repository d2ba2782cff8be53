package contacts

import (
	"context"

	"datasync/core/logger"
	"datasync/core/syncerr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for contact synchronization.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the contacts routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/contacts")
	group.Get("/", h.HandleList)
	group.Post("/sync", h.HandleSync)
	group.Get("/sync/status", h.HandleStatus)
}

// HandleList returns the local contacts.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	items, err := h.service.List(c.UserContext())
	if err != nil {
		l.Error("Failed to list contacts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"contacts":      items,
		"synchronizing": h.service.channel.IsSynchronizing(),
	})
}

// HandleSync runs a synchronization. With ?async=true the run is started in the
// background and the request returns 202 immediately.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.QueryBool("async") {
		// The run outlives the request.
		if !h.service.Trigger(context.Background()) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "busy"})
		}
		l.Info("Contact synchronization triggered")
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started"})
	}

	stats, ran, err := h.service.Synchronize(c.UserContext())
	if err != nil {
		l.Error("Contact synchronization failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"code":  syncerr.CodeOf(err),
		})
	}
	if !ran {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "busy"})
	}

	return c.JSON(fiber.Map{
		"status": "finished",
		"stats":  stats,
	})
}

// HandleStatus reports whether a run is active and the last run's counters.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}
