package handlers

import (
	"smart-elib/internal/config"
	"smart-elib/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root returns a simple service banner
// @Summary Service root
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "Smart E-Library API", fiber.Map{
		"docs": "/swagger/index.html",
	})
}

// APIInfo returns API version info
// @Summary API info
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1 [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return response.Success(c, "Smart E-Library API v1", fiber.Map{
		"version": "1.0",
	})
}

// HealthCheck returns service health
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "down"
	}

	if dbStatus == "down" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(response.Response{
			Success: false,
			Message: "Service degraded",
			Data: fiber.Map{
				"api":      "up",
				"database": dbStatus,
			},
		})
	}

	return response.Success(c, "Service healthy", fiber.Map{
		"api":      "up",
		"database": dbStatus,
	})
}
