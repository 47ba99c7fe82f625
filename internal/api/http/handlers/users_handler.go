package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-flow/internal/api/dto"
	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/store"
	"github.com/spec-kit/ticket-flow/pkg/apperrors"
)

// actorIDHeader carries the acting user's numeric id for operations that
// guard against self-modification.
const actorIDHeader = "X-Acting-User-Id"

// UsersHandler manages the user registry endpoints.
type UsersHandler struct {
	users *store.UserStore
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *store.UserStore) *UsersHandler {
	return &UsersHandler{users: users}
}

// List GET /users?active=true.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	items := h.users.List(c.QueryBool("active"))
	out := make([]dto.UserResponse, 0, len(items))
	for _, item := range items {
		out = append(out, userResponse(item))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := registryID(c)
	if err != nil {
		return err
	}
	item, ok := h.users.Get(id)
	if !ok {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return c.JSON(fiber.Map{"data": userResponse(item)})
}

// Create POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.users.Create(c.Context(), actor(c), userInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(*item)})
}

// Update PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := registryID(c)
	if err != nil {
		return err
	}
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	found, err := h.users.Update(c.Context(), actor(c), id, userInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

// Delete DELETE /users/:id. Deleting the acting user is rejected.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := registryID(c)
	if err != nil {
		return err
	}
	found, err := h.users.Delete(c.Context(), actorID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

// EffectivePermissions GET /users/:id/permissions resolves the user's own
// permissions merged with everything inherited through the parent chain.
func (h *UsersHandler) EffectivePermissions(c *fiber.Ctx) error {
	id, err := registryID(c)
	if err != nil {
		return err
	}
	if _, ok := h.users.Get(id); !ok {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"permissions": h.users.EffectivePermissions(id),
	}})
}

func actorID(c *fiber.Ctx) int {
	id, err := strconv.Atoi(c.Get(actorIDHeader))
	if err != nil {
		return 0
	}
	return id
}

func userInput(req dto.UserRequest) store.UserInput {
	return store.UserInput{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		Status:       req.Status,
		Permissions:  req.Permissions,
		ParentUserID: req.ParentUserID,
	}
}

func userResponse(item domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           item.ID,
		Name:         item.Name,
		Email:        item.Email,
		Role:         item.Role,
		Status:       item.Status,
		Initials:     item.Initials,
		Permissions:  item.Permissions,
		ParentUserID: item.ParentUserID,
		SubUsers:     item.SubUsers,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
