// Package store owns the in-memory collections: tickets plus the
// category/priority/user/permission registries. All mutation funnels through
// store methods; readers only ever get copies.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/events"
	"github.com/spec-kit/ticket-flow/internal/workflow"
)

// maxLogEntries caps the in-memory activity log, mirroring the permission
// history cap. A LogSink can retain the full stream externally.
const maxLogEntries = 1000

// LogSink receives every activity entry for retention beyond the in-memory
// cap. Append failures are logged by the sink, never surfaced to callers.
type LogSink interface {
	Append(ctx context.Context, entry domain.LogEntry) error
}

// TicketInput is the payload for create and import operations.
type TicketInput struct {
	Title       string
	Description string
	Priority    string
	Category    string
	Client      string
	Assignee    *string
	Tags        []string
}

// TicketPatch is a partial update; nil fields are left untouched. An
// Assignee set to the empty string clears the assignment.
type TicketPatch struct {
	Title       *string
	Description *string
	Priority    *string
	Category    *string
	Client      *string
	Assignee    *string
	Status      *domain.Status
	Stage       *domain.Stage
	Tags        *[]string
}

// ValidationResult carries field-scoped error messages. Validation failures
// are data, never errors: the caller decides whether to block submission.
type ValidationResult struct {
	Errors  map[string]string
	IsValid bool
}

// Statistics is the on-demand aggregation over the live collection. It is
// recomputed on every call, never cached.
type Statistics struct {
	Total      int
	ByStage    map[domain.Stage]int
	ByPriority map[string]int
	ByCategory map[string]int
}

// TicketStore owns the ticket collection and the activity log.
type TicketStore struct {
	mu         sync.RWMutex
	tickets    []domain.Ticket
	logs       []domain.LogEntry
	nextLogID  int
	revision   uint64
	dispatcher events.Dispatcher
	logSink    LogSink
}

// NewTicketStore constructs an empty store. Dispatcher and sink may be nil.
func NewTicketStore(dispatcher events.Dispatcher, sink LogSink) *TicketStore {
	return &TicketStore{
		dispatcher: dispatcher,
		logSink:    sink,
		nextLogID:  1,
	}
}

// ValidateTicketForm checks a candidate payload. The same rules gate both
// the create and edit flows.
func ValidateTicketForm(input TicketInput) ValidationResult {
	errs := map[string]string{}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		errs["title"] = "título é obrigatório"
	} else if len([]rune(title)) < 5 {
		errs["title"] = "título deve ter pelo menos 5 caracteres"
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		errs["description"] = "descrição é obrigatória"
	} else if len([]rune(description)) < 10 {
		errs["description"] = "descrição deve ter pelo menos 10 caracteres"
	}
	if strings.TrimSpace(input.Client) == "" {
		errs["client"] = "cliente é obrigatório"
	}
	return ValidationResult{Errors: errs, IsValid: len(errs) == 0}
}

// Create validates the payload and, when valid, appends a new ticket: next
// numeric id, derived key, stage forced to client, status forced to the
// stage's initial status, empty tags and comments. On validation failure the
// returned ticket is nil and the result carries the field errors.
func (s *TicketStore) Create(ctx context.Context, actor string, input TicketInput) (*domain.Ticket, ValidationResult) {
	result := ValidateTicketForm(input)
	if !result.IsValid {
		return nil, result
	}

	s.mu.Lock()
	now := time.Now()
	id := s.nextTicketIDLocked()
	ticket := domain.Ticket{
		ID:          id,
		Key:         domain.TicketKey(id),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
		Category:    input.Category,
		Client:      strings.TrimSpace(input.Client),
		Status:      workflow.InitialStatus(domain.StageClient),
		Stage:       domain.StageClient,
		Assignee:    input.Assignee,
		Tags:        []string{},
		Comments:    []domain.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tickets = append(s.tickets, ticket)
	s.revision++
	s.appendLogLocked(ctx, actor, domain.ActivityCreate, "ticket", ticket.Key,
		fmt.Sprintf("ticket %s criado: %s", ticket.Key, ticket.Title))
	s.mu.Unlock()

	s.publish(ctx, actor, events.EventTicketCreated, events.TicketCreatedPayload{
		TicketID: ticket.ID,
		Key:      ticket.Key,
		Title:    ticket.Title,
	})
	out := cloneTicket(ticket)
	return &out, result
}

// Update merges a partial field set into the ticket with the given id and
// refreshes UpdatedAt. Updating a missing id is a silent no-op reported by
// the false return; it is not an error.
func (s *TicketStore) Update(ctx context.Context, actor string, id int, patch TicketPatch) bool {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	ticket := &s.tickets[idx]
	applyPatch(ticket, patch)
	ticket.UpdatedAt = time.Now()
	s.revision++
	s.appendLogLocked(ctx, actor, domain.ActivityEdit, "ticket", ticket.Key,
		fmt.Sprintf("ticket %s atualizado", ticket.Key))
	s.mu.Unlock()

	s.publish(ctx, actor, events.EventTicketUpdated, events.TicketUpdatedPayload{TicketID: id})
	return true
}

// Move sets status and stage together. It deliberately performs no
// transition validation: the board session validates before calling it, and
// direct callers take on that responsibility themselves.
func (s *TicketStore) Move(ctx context.Context, actor string, id int, status domain.Status, stage domain.Stage) bool {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	ticket := &s.tickets[idx]
	fromStatus, fromStage := ticket.Status, ticket.Stage
	ticket.Status = status
	ticket.Stage = stage
	ticket.UpdatedAt = time.Now()
	s.revision++
	s.appendLogLocked(ctx, actor, domain.ActivityEdit, "ticket", ticket.Key,
		fmt.Sprintf("ticket %s movido de %s para %s", ticket.Key, fromStatus, status))
	s.mu.Unlock()

	s.publish(ctx, actor, events.EventTicketMoved, events.TicketMovedPayload{
		TicketID:   id,
		FromStatus: fromStatus,
		ToStatus:   status,
		FromStage:  fromStage,
		ToStage:    stage,
	})
	return true
}

// Delete removes the ticket by id. Comments are embedded and go with it;
// nothing else cascades. Deleting a missing id is a silent no-op.
func (s *TicketStore) Delete(ctx context.Context, actor string, id int) bool {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	key := s.tickets[idx].Key
	s.tickets = append(s.tickets[:idx], s.tickets[idx+1:]...)
	s.revision++
	s.appendLogLocked(ctx, actor, domain.ActivityDelete, "ticket", key,
		fmt.Sprintf("ticket %s removido", key))
	s.mu.Unlock()

	s.publish(ctx, actor, events.EventTicketDeleted, events.TicketDeletedPayload{TicketID: id, Key: key})
	return true
}

// AddComment appends a comment authored by the acting user. The comment id
// is the max existing id in the ticket plus one.
func (s *TicketStore) AddComment(ctx context.Context, actor string, ticketID int, body string) (*domain.Comment, bool) {
	s.mu.Lock()
	idx := s.indexOfLocked(ticketID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, false
	}
	ticket := &s.tickets[idx]
	maxID := 0
	for _, c := range ticket.Comments {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	comment := domain.Comment{
		ID:        maxID + 1,
		Author:    actor,
		Body:      body,
		CreatedAt: time.Now(),
	}
	ticket.Comments = append(ticket.Comments, comment)
	ticket.UpdatedAt = comment.CreatedAt
	s.revision++
	s.appendLogLocked(ctx, actor, domain.ActivityComment, "ticket", ticket.Key,
		fmt.Sprintf("comentário adicionado em %s", ticket.Key))
	s.mu.Unlock()

	s.publish(ctx, actor, events.EventTicketCommentAdded, events.TicketCommentAddedPayload{
		TicketID:    ticketID,
		CommentID:   comment.ID,
		Author:      actor,
		BodyPreview: bodyPreview(body, 120),
	})
	return &comment, true
}

// Import accepts already-defaulted payloads from the import pipeline and
// appends them as-is, without re-running required-field validation. Returns
// the created tickets.
func (s *TicketStore) Import(ctx context.Context, actor string, payloads []TicketInput) []domain.Ticket {
	created := make([]domain.Ticket, 0, len(payloads))

	s.mu.Lock()
	now := time.Now()
	for _, input := range payloads {
		id := s.nextTicketIDLocked()
		ticket := domain.Ticket{
			ID:          id,
			Key:         domain.TicketKey(id),
			Title:       strings.TrimSpace(input.Title),
			Description: strings.TrimSpace(input.Description),
			Priority:    input.Priority,
			Category:    input.Category,
			Client:      strings.TrimSpace(input.Client),
			Status:      workflow.InitialStatus(domain.StageClient),
			Stage:       domain.StageClient,
			Assignee:    input.Assignee,
			Tags:        []string{},
			Comments:    []domain.Comment{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.tickets = append(s.tickets, ticket)
		created = append(created, cloneTicket(ticket))
	}
	if len(created) > 0 {
		s.revision++
		s.appendLogLocked(ctx, actor, domain.ActivityCreate, "ticket", "import",
			fmt.Sprintf("%d tickets importados", len(created)))
	}
	s.mu.Unlock()

	if len(created) > 0 {
		s.publish(ctx, actor, events.EventTicketsImported, events.TicketsImportedPayload{Count: len(created)})
	}
	return created
}

// Get returns a copy of the ticket with the given id.
func (s *TicketStore) Get(id int) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		return domain.Ticket{}, false
	}
	return cloneTicket(s.tickets[idx]), true
}

// List returns a copy of the collection in insertion order.
func (s *TicketStore) List() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, cloneTicket(t))
	}
	return out
}

// Revision returns a counter that moves on every mutation; the search engine
// uses it to decide when to rebuild its projection.
func (s *TicketStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Stats recomputes the aggregate counts from the live collection.
func (s *TicketStore) Stats() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := Statistics{
		Total:      len(s.tickets),
		ByStage:    map[domain.Stage]int{},
		ByPriority: map[string]int{},
		ByCategory: map[string]int{},
	}
	for _, t := range s.tickets {
		stats.ByStage[t.Stage]++
		stats.ByPriority[t.Priority]++
		stats.ByCategory[t.Category]++
	}
	return stats
}

// Logs returns up to limit activity entries, newest first. A non-positive
// limit returns everything retained in memory.
func (s *TicketStore) Logs(limit int) []domain.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.logs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.LogEntry, n)
	copy(out, s.logs[:n])
	return out
}

// RecordSystemEvent appends a system-level activity entry (startup, restore,
// seed) outside the ticket mutation paths.
func (s *TicketStore) RecordSystemEvent(ctx context.Context, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLogLocked(ctx, "system", domain.ActivitySystem, "system", "", detail)
}

// Snapshot returns copies of the ticket collection and the retained log.
func (s *TicketStore) Snapshot() ([]domain.Ticket, []domain.LogEntry) {
	tickets := s.List()
	s.mu.RLock()
	logs := make([]domain.LogEntry, len(s.logs))
	copy(logs, s.logs)
	s.mu.RUnlock()
	return tickets, logs
}

// Restore replaces the store state from a snapshot.
func (s *TicketStore) Restore(tickets []domain.Ticket, logs []domain.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		s.tickets = append(s.tickets, cloneTicket(t))
	}
	s.logs = make([]domain.LogEntry, len(logs))
	copy(s.logs, logs)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[:maxLogEntries]
	}
	s.nextLogID = 1
	for _, entry := range s.logs {
		if entry.ID >= s.nextLogID {
			s.nextLogID = entry.ID + 1
		}
	}
	s.revision++
}

func (s *TicketStore) nextTicketIDLocked() int {
	max := 0
	for _, t := range s.tickets {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

func (s *TicketStore) indexOfLocked(id int) int {
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			return i
		}
	}
	return -1
}

// appendLogLocked prepends an entry (newest first) and evicts beyond the cap.
func (s *TicketStore) appendLogLocked(ctx context.Context, actor string, activity domain.ActivityType, entityType, entityID, detail string) {
	entry := domain.LogEntry{
		ID:         s.nextLogID,
		UserName:   actor,
		Type:       activity,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now(),
	}
	s.nextLogID++
	s.logs = append([]domain.LogEntry{entry}, s.logs...)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[:maxLogEntries]
	}
	if s.logSink != nil {
		_ = s.logSink.Append(ctx, entry)
	}
}

func (s *TicketStore) publish(ctx context.Context, actor string, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func applyPatch(ticket *domain.Ticket, patch TicketPatch) {
	if patch.Title != nil {
		ticket.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		ticket.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		ticket.Priority = *patch.Priority
	}
	if patch.Category != nil {
		ticket.Category = *patch.Category
	}
	if patch.Client != nil {
		ticket.Client = strings.TrimSpace(*patch.Client)
	}
	if patch.Assignee != nil {
		if *patch.Assignee == "" {
			ticket.Assignee = nil
		} else {
			assignee := *patch.Assignee
			ticket.Assignee = &assignee
		}
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
	if patch.Stage != nil {
		ticket.Stage = *patch.Stage
	}
	if patch.Tags != nil {
		tags := make([]string, len(*patch.Tags))
		copy(tags, *patch.Tags)
		ticket.Tags = tags
	}
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	out := t
	out.Tags = append([]string{}, t.Tags...)
	out.Comments = append([]domain.Comment{}, t.Comments...)
	if t.Assignee != nil {
		assignee := *t.Assignee
		out.Assignee = &assignee
	}
	return out
}

func bodyPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
