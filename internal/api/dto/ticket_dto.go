package dto

import (
	"time"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

// CreateTicketRequest is the payload for POST /tickets.
type CreateTicketRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Category    string   `json:"category"`
	Client      string   `json:"client"`
	Assignee    *string  `json:"assignee"`
	Tags        []string `json:"tags"`
}

// UpdateTicketRequest is the partial payload for PATCH /tickets/:id. Nil
// fields are left untouched; an empty assignee clears the assignment.
type UpdateTicketRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Priority    *string        `json:"priority"`
	Category    *string        `json:"category"`
	Client      *string        `json:"client"`
	Assignee    *string        `json:"assignee"`
	Status      *domain.Status `json:"status"`
	Stage       *domain.Stage  `json:"stage"`
	Tags        *[]string      `json:"tags"`
}

// MoveTicketRequest is the payload for board moves.
type MoveTicketRequest struct {
	TicketID int           `json:"ticket_id"`
	ToStatus domain.Status `json:"to_status"`
}

// DirectMoveRequest is the payload for POST /tickets/:id/move. Unlike board
// moves it names the target stage explicitly and skips transition rules.
type DirectMoveRequest struct {
	ToStage  domain.Stage  `json:"to_stage"`
	ToStatus domain.Status `json:"to_status"`
}

// CommentRequest is the payload for POST /tickets/:id/comments.
type CommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse is one ticket comment.
type CommentResponse struct {
	ID        int       `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID          int               `json:"id"`
	Key         string            `json:"key"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    string            `json:"priority"`
	Category    string            `json:"category"`
	Client      string            `json:"client"`
	Status      domain.Status     `json:"status"`
	Stage       domain.Stage      `json:"stage"`
	Assignee    *string           `json:"assignee,omitempty"`
	Tags        []string          `json:"tags"`
	Comments    []CommentResponse `json:"comments"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ValidationErrorResponse carries field-scoped messages for a rejected form.
type ValidationErrorResponse struct {
	Errors  map[string]string `json:"errors"`
	IsValid bool              `json:"is_valid"`
}

// StatsResponse is the on-demand aggregation.
type StatsResponse struct {
	Total      int                  `json:"total"`
	ByStage    map[domain.Stage]int `json:"by_stage"`
	ByPriority map[string]int       `json:"by_priority"`
	ByCategory map[string]int       `json:"by_category"`
}

// BoardColumnResponse is one kanban column with its reachable statuses.
type BoardColumnResponse struct {
	Status  domain.Status    `json:"status"`
	Label   string           `json:"label"`
	Color   string           `json:"color"`
	Next    []domain.Status  `json:"next"`
	Tickets []TicketResponse `json:"tickets"`
}

// BoardResponse is the kanban board for one stage.
type BoardResponse struct {
	Stage   domain.Stage          `json:"stage"`
	Columns []BoardColumnResponse `json:"columns"`
}

// MoveResultResponse reports a board move outcome.
type MoveResultResponse struct {
	Accepted bool          `json:"accepted"`
	Found    bool          `json:"found"`
	TicketID int           `json:"ticket_id"`
	From     domain.Status `json:"from"`
	To       domain.Status `json:"to"`
}

// ImportRowRequest is one column-mapped spreadsheet row.
type ImportRowRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Client      string `json:"client"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

// ImportRequest is the payload for POST /tickets/import.
type ImportRequest struct {
	Rows []ImportRowRequest `json:"rows"`
}

// ImportResultResponse summarizes an import run.
type ImportResultResponse struct {
	TotalRows   int              `json:"total_rows"`
	ValidRows   int              `json:"valid_rows"`
	InvalidRows int              `json:"invalid_rows"`
	Errors      []string         `json:"errors"`
	Created     []TicketResponse `json:"created"`
}

// LogEntryResponse is one activity-log entry.
type LogEntryResponse struct {
	ID         int                 `json:"id"`
	UserName   string              `json:"user_name"`
	Type       domain.ActivityType `json:"type"`
	EntityType string              `json:"entity_type"`
	EntityID   string              `json:"entity_id"`
	Detail     string              `json:"detail"`
	CreatedAt  time.Time           `json:"created_at"`
}
