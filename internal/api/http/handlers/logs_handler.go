package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-flow/internal/api/dto"
	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/persistence"
	"github.com/spec-kit/ticket-flow/internal/store"
)

// LogsHandler serves the activity log: the capped in-memory window by
// default, the Postgres archive when requested and configured.
type LogsHandler struct {
	tickets *store.TicketStore
	archive *persistence.ActivityLogArchive
}

// NewLogsHandler constructs handler.
func NewLogsHandler(tickets *store.TicketStore, archive *persistence.ActivityLogArchive) *LogsHandler {
	return &LogsHandler{tickets: tickets, archive: archive}
}

// List GET /logs?limit=50&archive=true.
func (h *LogsHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	var (
		entries []domain.LogEntry
		err     error
	)
	if c.QueryBool("archive") && h.archive.Enabled() {
		entries, err = h.archive.ListRecent(c.Context(), limit)
		if err != nil {
			return err
		}
	} else {
		entries = h.tickets.Logs(limit)
	}

	out := make([]dto.LogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.LogEntryResponse{
			ID:         entry.ID,
			UserName:   entry.UserName,
			Type:       entry.Type,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Detail:     entry.Detail,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}
