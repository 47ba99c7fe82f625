package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-flow/internal/api/dto"
	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/search"
	"github.com/spec-kit/ticket-flow/internal/store"
	"github.com/spec-kit/ticket-flow/pkg/apperrors"
)

// SearchHandler serves weighted search, filter options, and suggestions.
type SearchHandler struct {
	engine  *search.Engine
	tickets *store.TicketStore
}

// NewSearchHandler constructs handler.
func NewSearchHandler(engine *search.Engine, tickets *store.TicketStore) *SearchHandler {
	return &SearchHandler{engine: engine, tickets: tickets}
}

// Search GET /search?q=...&category=...&priority=...&assignee=...&status=...
// &stage=...&created_from=...&created_to=...
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	filters := search.Filters{
		Category: c.Query("category"),
		Priority: c.Query("priority"),
		Assignee: c.Query("assignee"),
		Status:   domain.Status(c.Query("status")),
		Stage:    domain.Stage(c.Query("stage")),
	}
	from, err := queryDate(c, "created_from")
	if err != nil {
		return err
	}
	to, err := queryDate(c, "created_to")
	if err != nil {
		return err
	}
	filters.CreatedFrom = from
	filters.CreatedTo = to

	query := c.Query("q")
	results := h.engine.Search(query, filters)

	items := make([]dto.SearchResultResponse, 0, len(results))
	for _, r := range results {
		ticket, ok := h.tickets.Get(r.Record.ID)
		if !ok {
			continue
		}
		matches := make([]dto.FieldMatchResponse, 0, len(r.Matches))
		for _, m := range r.Matches {
			matches = append(matches, dto.FieldMatchResponse{
				Field: m.Field,
				Value: m.Value,
				Terms: m.Terms,
			})
		}
		items = append(items, dto.SearchResultResponse{
			Ticket:  ticketResponse(&ticket),
			Score:   r.Score,
			Matches: matches,
			Preview: r.Preview,
		})
	}
	return c.JSON(fiber.Map{"data": dto.SearchResponse{
		Query:   query,
		Total:   len(items),
		Results: items,
	}})
}

// Options GET /search/options lists distinct values for the filter controls.
func (h *SearchHandler) Options(c *fiber.Ctx) error {
	opts := h.engine.Options()
	return c.JSON(fiber.Map{"data": dto.FilterOptionsResponse{
		Categories: opts.Categories,
		Priorities: opts.Priorities,
		Assignees:  opts.Assignees,
		Statuses:   opts.Statuses,
		Stages:     opts.Stages,
	}})
}

// Suggestions GET /search/suggestions returns recent-then-popular queries.
func (h *SearchHandler) Suggestions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.SuggestionsResponse{
		Suggestions: h.engine.Suggestions(),
	}})
}

func queryDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, apperrors.NewValidationError("invalid date filter", map[string]any{name: raw})
}
