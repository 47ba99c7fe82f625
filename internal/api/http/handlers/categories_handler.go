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

// CategoriesHandler manages the category registry endpoints.
type CategoriesHandler struct {
	categories *store.CategoryStore
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categories *store.CategoryStore) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

// List GET /categories?active=true.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	items := h.categories.List(c.QueryBool("active"))
	out := make([]dto.CategoryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, categoryResponse(item))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get GET /categories/:key.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	item, ok := h.categories.Get(c.Params("key"))
	if !ok {
		return apperrors.NewNotFound("category", map[string]any{"key": c.Params("key")})
	}
	return c.JSON(fiber.Map{"data": categoryResponse(item)})
}

// Create POST /categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.categories.Create(c.Context(), actor(c), categoryInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": categoryResponse(*item)})
}

// Update PUT /categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	id, err := registryID(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	found := h.categories.Update(c.Context(), actor(c), id, categoryInput(req))
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

// Delete DELETE /categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	id, err := registryID(c)
	if err != nil {
		return err
	}
	found := h.categories.Delete(c.Context(), actor(c), id)
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

func registryID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func categoryInput(req dto.CategoryRequest) store.CategoryInput {
	return store.CategoryInput{
		Key:         req.Key,
		Label:       req.Label,
		Icon:        req.Icon,
		Color:       req.Color,
		Active:      req.Active,
		Description: req.Description,
	}
}

func categoryResponse(item domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          item.ID,
		Key:         item.Key,
		Label:       item.Label,
		Icon:        item.Icon,
		Color:       item.Color,
		Active:      item.Active,
		Description: item.Description,
	}
}
