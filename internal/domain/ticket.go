package domain

import (
	"fmt"
	"time"
)

// Stage identifies one of the three pipeline phases a ticket passes through.
type Stage string

const (
	StageClient     Stage = "client"
	StageManagement Stage = "management"
	StageDev        Stage = "dev"
)

// Status is a stage-scoped ticket sub-state. A status value is only
// meaningful relative to the ticket's current stage.
type Status string

const (
	StatusNovo           Status = "novo"
	StatusAguardandoInfo Status = "aguardando-info"
	StatusAprovado       Status = "aprovado"

	StatusEmAnalise Status = "em-analise"
	StatusPlanejado Status = "planejado"
	StatusAtribuido Status = "atribuido"

	StatusEmDesenvolvimento Status = "em-desenvolvimento"
	StatusCodeReview        Status = "code-review"
	StatusTeste             Status = "teste"
	StatusConcluido         Status = "concluido"
)

// Comment is a ticket-owned discussion entry. Comment ids are unique within
// their ticket only and are assigned as max-existing+1.
type Comment struct {
	ID        int
	Author    string
	Body      string
	CreatedAt time.Time
}

// Ticket is the central aggregate. Category, priority and assignee are weak
// references held as plain strings; a dangling reference is not an error.
type Ticket struct {
	ID          int
	Key         string
	Title       string
	Description string
	Priority    string
	Category    string
	Client      string
	Status      Status
	Stage       Stage
	Assignee    *string
	Tags        []string
	Comments    []Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketKey derives the display key for a ticket id. The key is assigned at
// creation and never recomputed afterwards.
func TicketKey(id int) string {
	return fmt.Sprintf("TK-%03d", id)
}
