package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/atma-chethana/counselling-api/database"
	"github.com/atma-chethana/counselling-api/utils/response"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	store database.Storage
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(store database.Storage) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check reports liveness and database reachability.
// GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.store.HealthCheck(); err != nil {
		dbStatus = "unreachable"
	}

	return response.Success(c, fiber.Map{
		"status":    "ok",
		"database":  dbStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
