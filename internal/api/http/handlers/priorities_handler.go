package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-flow/internal/api/dto"
	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/store"
	"github.com/spec-kit/ticket-flow/pkg/apperrors"
)

// PrioritiesHandler manages the priority registry endpoints.
type PrioritiesHandler struct {
	priorities *store.PriorityStore
}

// NewPrioritiesHandler constructs handler.
func NewPrioritiesHandler(priorities *store.PriorityStore) *PrioritiesHandler {
	return &PrioritiesHandler{priorities: priorities}
}

// List GET /priorities?active=true. Ordered by level, most urgent first.
func (h *PrioritiesHandler) List(c *fiber.Ctx) error {
	items := h.priorities.List(c.QueryBool("active"))
	out := make([]dto.PriorityResponse, 0, len(items))
	for _, item := range items {
		out = append(out, priorityResponse(item))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get GET /priorities/:key.
func (h *PrioritiesHandler) Get(c *fiber.Ctx) error {
	item, ok := h.priorities.Get(c.Params("key"))
	if !ok {
		return apperrors.NewNotFound("priority", map[string]any{"key": c.Params("key")})
	}
	return c.JSON(fiber.Map{"data": priorityResponse(item)})
}

// Create POST /priorities.
func (h *PrioritiesHandler) Create(c *fiber.Ctx) error {
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.priorities.Create(c.Context(), actor(c), priorityInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": priorityResponse(*item)})
}

// Update PUT /priorities/:id. Deactivating the last active priority is a
// conflict, not a silent no-op.
func (h *PrioritiesHandler) Update(c *fiber.Ctx) error {
	id, err := registryID(c)
	if err != nil {
		return err
	}
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	found, err := h.priorities.Update(c.Context(), actor(c), id, priorityInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

// Delete DELETE /priorities/:id.
func (h *PrioritiesHandler) Delete(c *fiber.Ctx) error {
	id, err := registryID(c)
	if err != nil {
		return err
	}
	found, err := h.priorities.Delete(c.Context(), actor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

func priorityInput(req dto.PriorityRequest) store.PriorityInput {
	return store.PriorityInput{
		Key:    req.Key,
		Label:  req.Label,
		Level:  req.Level,
		Color:  req.Color,
		Icon:   req.Icon,
		Active: req.Active,
	}
}

func priorityResponse(item domain.Priority) dto.PriorityResponse {
	return dto.PriorityResponse{
		ID:     item.ID,
		Key:    item.Key,
		Label:  item.Label,
		Level:  item.Level,
		Color:  item.Color,
		Icon:   item.Icon,
		Active: item.Active,
	}
}
