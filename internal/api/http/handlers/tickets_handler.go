package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-flow/internal/api/dto"
	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/importer"
	"github.com/spec-kit/ticket-flow/internal/store"
	"github.com/spec-kit/ticket-flow/internal/workflow"
	"github.com/spec-kit/ticket-flow/pkg/apperrors"
)

// actorHeader names the acting user for audit entries. There is no
// authentication; the header is trusted as-is.
const actorHeader = "X-Acting-User"

// TicketsHandler manages ticket CRUD, comments, stats and import endpoints.
type TicketsHandler struct {
	tickets *store.TicketStore
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *store.TicketStore) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	tickets := h.tickets.List()
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, ok := h.tickets.Get(id)
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return c.JSON(fiber.Map{"data": ticketResponse(&ticket)})
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, validation := h.tickets.Create(c.Context(), actor(c), store.TicketInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Client:      req.Client,
		Assignee:    req.Assignee,
		Tags:        req.Tags,
	})
	if !validation.IsValid {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
			"data": dto.ValidationErrorResponse{Errors: validation.Errors, IsValid: false},
		})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Validate POST /tickets/validate runs the shared form validation without
// mutating anything; the edit flow uses it before calling update.
func (h *TicketsHandler) Validate(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	validation := store.ValidateTicketForm(store.TicketInput{
		Title:       req.Title,
		Description: req.Description,
		Client:      req.Client,
	})
	return c.JSON(fiber.Map{"data": dto.ValidationErrorResponse{
		Errors:  validation.Errors,
		IsValid: validation.IsValid,
	}})
}

// Update PATCH /tickets/:id. A missing id is reported as found=false, not
// an error: updates to unknown tickets are silently dropped by the store.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	found := h.tickets.Update(c.Context(), actor(c), id, store.TicketPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Client:      req.Client,
		Assignee:    req.Assignee,
		Status:      req.Status,
		Stage:       req.Stage,
		Tags:        req.Tags,
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

// Delete DELETE /tickets/:id. Missing ids are silently absorbed.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	found := h.tickets.Delete(c.Context(), actor(c), id)
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

// Move POST /tickets/:id/move sets stage and status in one step without
// running transition rules. The board endpoint is the validated path; this
// one exists for administrative corrections and cross-stage moves.
func (h *TicketsHandler) Move(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.DirectMoveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if _, ok := domain.StageDisplay(req.ToStage); !ok {
		return apperrors.NewValidationError("unknown stage", map[string]any{"stage": req.ToStage})
	}
	if !workflow.StageHasStatus(req.ToStage, req.ToStatus) {
		return apperrors.NewValidationError("status does not belong to stage", map[string]any{
			"stage":  req.ToStage,
			"status": req.ToStatus,
		})
	}
	found := h.tickets.Move(c.Context(), actor(c), id, req.ToStatus, req.ToStage)
	return c.JSON(fiber.Map{"data": fiber.Map{"found": found}})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Body) == "" {
		return apperrors.NewValidationError("body required", nil)
	}
	comment, ok := h.tickets.AddComment(c.Context(), actor(c), id, req.Body)
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(*comment)})
}

// Stats GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats := h.tickets.Stats()
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		Total:      stats.Total,
		ByStage:    stats.ByStage,
		ByPriority: stats.ByPriority,
		ByCategory: stats.ByCategory,
	}})
}

// Import POST /tickets/import. Partial success is the designed behavior:
// invalid rows are reported alongside the tickets created from valid rows.
func (h *TicketsHandler) Import(c *fiber.Ctx) error {
	var req dto.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rows := make([]importer.Row, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, importer.Row{
			Title:       r.Title,
			Description: r.Description,
			Client:      r.Client,
			Priority:    r.Priority,
			Category:    r.Category,
		})
	}
	result := importer.ParseRows(rows)
	created := h.tickets.Import(c.Context(), actor(c), result.Payloads)

	items := make([]dto.TicketResponse, 0, len(created))
	for i := range created {
		items = append(items, ticketResponse(&created[i]))
	}
	return c.JSON(fiber.Map{"data": dto.ImportResultResponse{
		TotalRows:   result.TotalRows,
		ValidRows:   result.ValidRows,
		InvalidRows: result.InvalidRows,
		Errors:      result.Errors,
		Created:     items,
	}})
}

func actor(c *fiber.Ctx) string {
	if name := strings.TrimSpace(c.Get(actorHeader)); name != "" {
		return name
	}
	return "anonymous"
}

func ticketID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return id, nil
}

func ticketResponse(t *domain.Ticket) dto.TicketResponse {
	comments := make([]dto.CommentResponse, 0, len(t.Comments))
	for _, comment := range t.Comments {
		comments = append(comments, commentResponse(comment))
	}
	return dto.TicketResponse{
		ID:          t.ID,
		Key:         t.Key,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		Client:      t.Client,
		Status:      t.Status,
		Stage:       t.Stage,
		Assignee:    t.Assignee,
		Tags:        t.Tags,
		Comments:    comments,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func commentResponse(c domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        c.ID,
		Author:    c.Author,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
