package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-flow/internal/persistence"
)

// HealthHandler reports process liveness and dependency readiness. The
// snapshot mirror and the log archive are both optional, so a disabled
// dependency reports as "disabled" rather than failing the check.
type HealthHandler struct {
	snapshots *persistence.SnapshotStore
	postgres  *persistence.Postgres
}

// NewHealthHandler constructs handler.
func NewHealthHandler(snapshots *persistence.SnapshotStore, postgres *persistence.Postgres) *HealthHandler {
	return &HealthHandler{snapshots: snapshots, postgres: postgres}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{}
	healthy := true

	if !h.snapshots.Enabled() {
		checks["redis"] = "disabled"
	} else if err := h.snapshots.Ping(c.Context()); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	if h.postgres == nil || h.postgres.PoolHandle() == nil {
		checks["postgres"] = "disabled"
	} else if err := h.postgres.PoolHandle().Ping(c.Context()); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"status": checks})
}
