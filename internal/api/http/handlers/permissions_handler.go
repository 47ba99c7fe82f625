package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-flow/internal/api/dto"
	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/store"
	"github.com/spec-kit/ticket-flow/pkg/apperrors"
)

// PermissionsHandler manages permissions, role templates, and the change
// history.
type PermissionsHandler struct {
	permissions *store.PermissionStore
	users       *store.UserStore
}

// NewPermissionsHandler constructs handler.
func NewPermissionsHandler(permissions *store.PermissionStore, users *store.UserStore) *PermissionsHandler {
	return &PermissionsHandler{permissions: permissions, users: users}
}

// List GET /permissions.
func (h *PermissionsHandler) List(c *fiber.Ctx) error {
	items := h.permissions.ListPermissions()
	out := make([]dto.PermissionResponse, 0, len(items))
	for _, item := range items {
		out = append(out, permissionResponse(item))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create POST /permissions. Runtime-created permissions are never system
// permissions; those come only from seeding.
func (h *PermissionsHandler) Create(c *fiber.Ctx) error {
	var req dto.PermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.permissions.CreatePermission(c.Context(), actor(c), store.PermissionInput{
		ID:          req.ID,
		Label:       req.Label,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": permissionResponse(*item)})
}

// Update PUT /permissions/:id.
func (h *PermissionsHandler) Update(c *fiber.Ctx) error {
	var req dto.PermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	found, err := h.permissions.UpdatePermission(c.Context(), actor(c), c.Params("id"), store.PermissionInput{
		Label:       req.Label,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

// Delete DELETE /permissions/:id. System permissions are undeletable.
func (h *PermissionsHandler) Delete(c *fiber.Ctx) error {
	found, err := h.permissions.DeletePermission(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

// ListTemplates GET /permissions/templates.
func (h *PermissionsHandler) ListTemplates(c *fiber.Ctx) error {
	items := h.permissions.ListTemplates()
	out := make([]dto.RoleTemplateResponse, 0, len(items))
	for _, item := range items {
		out = append(out, templateResponse(item))
	}
	return c.JSON(fiber.Map{"data": out})
}

// TemplateForRole GET /permissions/templates/role/:role.
func (h *PermissionsHandler) TemplateForRole(c *fiber.Ctx) error {
	role := domain.Role(c.Params("role"))
	template, ok := h.permissions.TemplateForRole(role)
	if !ok {
		return apperrors.NewNotFound("role template", map[string]any{"role": role})
	}
	return c.JSON(fiber.Map{"data": templateResponse(template)})
}

// CreateTemplate POST /permissions/templates.
func (h *PermissionsHandler) CreateTemplate(c *fiber.Ctx) error {
	var req dto.RoleTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.permissions.CreateTemplate(c.Context(), actor(c), store.RoleTemplateInput{
		Name:        req.Name,
		Role:        req.Role,
		Permissions: req.Permissions,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": templateResponse(*item)})
}

// DeleteTemplate DELETE /permissions/templates/:id. Default templates are
// undeletable.
func (h *PermissionsHandler) DeleteTemplate(c *fiber.Ctx) error {
	id, err := registryID(c)
	if err != nil {
		return err
	}
	found, err := h.permissions.DeleteTemplate(c.Context(), actor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

// History GET /permissions/history returns the change audit, newest first.
func (h *PermissionsHandler) History(c *fiber.Ctx) error {
	items := h.permissions.History()
	out := make([]dto.PermissionChangeResponse, 0, len(items))
	for _, item := range items {
		out = append(out, changeResponse(item))
	}
	return c.JSON(fiber.Map{"data": out})
}

// ApplyChange POST /permissions/changes grants or revokes one permission on
// a user and records the mutation in the audit history.
func (h *PermissionsHandler) ApplyChange(c *fiber.Ctx) error {
	var req dto.PermissionChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Action != domain.PermissionActionGrant && req.Action != domain.PermissionActionRevoke {
		return apperrors.NewValidationError("action must be grant or revoke", nil)
	}
	if _, ok := h.permissions.GetPermission(req.PermissionID); !ok {
		return apperrors.NewNotFound("permission", map[string]any{"id": req.PermissionID})
	}
	user, ok := h.users.Get(req.UserID)
	if !ok {
		return apperrors.NewNotFound("user", map[string]any{"id": req.UserID})
	}

	previous := hasPermission(user.Permissions, req.PermissionID)
	next := req.Action == domain.PermissionActionGrant

	if previous != next {
		permissions := user.Permissions
		if next {
			permissions = append(permissions, req.PermissionID)
		} else {
			permissions = withoutPermission(permissions, req.PermissionID)
		}
		if _, err := h.users.Update(c.Context(), actor(c), user.ID, store.UserInput{
			Name:         user.Name,
			Email:        user.Email,
			Role:         user.Role,
			Status:       user.Status,
			Permissions:  permissions,
			ParentUserID: user.ParentUserID,
		}); err != nil {
			return err
		}
	}

	change := h.permissions.RecordChange(c.Context(), store.ChangeInput{
		UserID:        user.ID,
		UserName:      user.Name,
		Action:        req.Action,
		PermissionID:  req.PermissionID,
		PreviousValue: previous,
		NewValue:      next,
		ChangedBy:     actor(c),
		Reason:        req.Reason,
	})
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": changeResponse(change)})
}

func hasPermission(permissions []string, id string) bool {
	for _, p := range permissions {
		if p == id {
			return true
		}
	}
	return false
}

func withoutPermission(permissions []string, id string) []string {
	out := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if p != id {
			out = append(out, p)
		}
	}
	return out
}

func permissionResponse(item domain.Permission) dto.PermissionResponse {
	return dto.PermissionResponse{
		ID:                 item.ID,
		Label:              item.Label,
		Description:        item.Description,
		Category:           item.Category,
		IsSystemPermission: item.IsSystemPermission,
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
}

func templateResponse(item domain.RoleTemplate) dto.RoleTemplateResponse {
	return dto.RoleTemplateResponse{
		ID:          item.ID,
		Name:        item.Name,
		Role:        item.Role,
		Permissions: item.Permissions,
		IsDefault:   item.IsDefault,
	}
}

func changeResponse(item domain.PermissionChange) dto.PermissionChangeResponse {
	return dto.PermissionChangeResponse{
		ID:            item.ID,
		UserID:        item.UserID,
		UserName:      item.UserName,
		Action:        item.Action,
		PermissionID:  item.PermissionID,
		PreviousValue: item.PreviousValue,
		NewValue:      item.NewValue,
		ChangedBy:     item.ChangedBy,
		Reason:        item.Reason,
		CreatedAt:     item.CreatedAt,
	}
}
