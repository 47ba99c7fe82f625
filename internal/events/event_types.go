package events

import (
	"time"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketUpdated      EventType = "ticket_updated"
	EventTicketMoved        EventType = "ticket_moved"
	EventTicketDeleted      EventType = "ticket_deleted"
	EventTicketCommentAdded EventType = "ticket_comment_added"
	EventTicketsImported    EventType = "tickets_imported"
	EventRegistryChanged    EventType = "registry_changed"
)

// Event represents a domain event emitted by the stores.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID int    `json:"ticket_id"`
	Key      string `json:"key"`
	Title    string `json:"title"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	TicketID int `json:"ticket_id"`
}

// TicketMovedPayload payload.
type TicketMovedPayload struct {
	TicketID   int           `json:"ticket_id"`
	FromStatus domain.Status `json:"from_status"`
	ToStatus   domain.Status `json:"to_status"`
	FromStage  domain.Stage  `json:"from_stage"`
	ToStage    domain.Stage  `json:"to_stage"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	TicketID int    `json:"ticket_id"`
	Key      string `json:"key"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	TicketID    int    `json:"ticket_id"`
	CommentID   int    `json:"comment_id"`
	Author      string `json:"author"`
	BodyPreview string `json:"body_preview"`
}

// TicketsImportedPayload payload.
type TicketsImportedPayload struct {
	Count int `json:"count"`
}

// RegistryChangedPayload payload for category/priority/user/permission
// registry mutations.
type RegistryChangedPayload struct {
	Registry string `json:"registry"`
	Action   string `json:"action"`
	Key      string `json:"key"`
}
