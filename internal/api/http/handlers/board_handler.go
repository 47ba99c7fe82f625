package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-flow/internal/api/dto"
	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/store"
	"github.com/spec-kit/ticket-flow/internal/workflow"
	"github.com/spec-kit/ticket-flow/pkg/apperrors"
)

// BoardHandler serves the per-stage kanban board and processes moves.
type BoardHandler struct {
	tickets *store.TicketStore
}

// NewBoardHandler constructs handler.
func NewBoardHandler(tickets *store.TicketStore) *BoardHandler {
	return &BoardHandler{tickets: tickets}
}

// Get GET /board/:stage returns the columns of one stage, each with its
// tickets and the statuses reachable from it.
func (h *BoardHandler) Get(c *fiber.Ctx) error {
	stage, err := boardStage(c)
	if err != nil {
		return err
	}

	tickets := h.tickets.List()
	byStatus := make(map[domain.Status][]dto.TicketResponse)
	for i := range tickets {
		if tickets[i].Stage != stage {
			continue
		}
		byStatus[tickets[i].Status] = append(byStatus[tickets[i].Status], ticketResponse(&tickets[i]))
	}

	columns := make([]dto.BoardColumnResponse, 0)
	for _, status := range workflow.Columns(stage) {
		meta, _ := domain.StatusDisplay(status)
		items := byStatus[status]
		if items == nil {
			items = []dto.TicketResponse{}
		}
		columns = append(columns, dto.BoardColumnResponse{
			Status:  status,
			Label:   meta.Label,
			Color:   meta.Color,
			Next:    workflow.NextStatuses(status, stage),
			Tickets: items,
		})
	}
	return c.JSON(fiber.Map{"data": dto.BoardResponse{Stage: stage, Columns: columns}})
}

// Move POST /board/:stage/move runs the full drag gesture server-side:
// the session validates the transition against the stage rules and only a
// valid drop reaches the store.
func (h *BoardHandler) Move(c *fiber.Ctx) error {
	stage, err := boardStage(c)
	if err != nil {
		return err
	}
	var req dto.MoveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !workflow.StageHasStatus(stage, req.ToStatus) {
		return apperrors.NewValidationError("unknown target column", map[string]any{
			"stage":  stage,
			"status": req.ToStatus,
		})
	}
	ticket, ok := h.tickets.Get(req.TicketID)
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": req.TicketID})
	}

	session := workflow.NewDragSession(h.tickets, actor(c))
	session.Start(ticket)
	result := session.Drop(c.Context(), req.ToStatus)

	return c.JSON(fiber.Map{"data": dto.MoveResultResponse{
		Accepted: result.Accepted,
		Found:    result.Found,
		TicketID: result.TicketID,
		From:     result.From,
		To:       result.To,
	}})
}

func boardStage(c *fiber.Ctx) (domain.Stage, error) {
	stage := domain.Stage(c.Params("stage"))
	if _, ok := domain.StageDisplay(stage); !ok {
		return "", apperrors.NewValidationError("unknown stage", map[string]any{"stage": stage})
	}
	return stage, nil
}
