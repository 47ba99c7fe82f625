package workflow

import (
	"context"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

// DragPhase labels the lifecycle of one drag gesture.
type DragPhase string

const (
	PhaseIdle            DragPhase = "idle"
	PhaseDragging        DragPhase = "dragging"
	PhaseHoveringValid   DragPhase = "hovering-valid"
	PhaseHoveringInvalid DragPhase = "hovering-invalid"
)

// Mover is the slice of the ticket store a drop needs. Move performs no
// transition validation of its own; the session validates before calling it.
type Mover interface {
	Move(ctx context.Context, actor string, id int, status domain.Status, stage domain.Stage) bool
}

// DropResult reports the outcome of a drop gesture.
type DropResult struct {
	Accepted bool
	Found    bool
	TicketID int
	From     domain.Status
	To       domain.Status
}

// DragSession is the state machine for a single drag gesture on the board:
// idle → dragging → hovering valid/invalid → idle. Sessions belong to one
// interactive user and are not safe for concurrent use.
type DragSession struct {
	mover    Mover
	actor    string
	phase    DragPhase
	ticketID int
	from     domain.Status
	stage    domain.Stage
}

// NewDragSession creates an idle session for the given actor.
func NewDragSession(mover Mover, actor string) *DragSession {
	return &DragSession{mover: mover, actor: actor, phase: PhaseIdle}
}

// Phase returns the current gesture phase.
func (s *DragSession) Phase() DragPhase {
	return s.phase
}

// Start captures the dragged ticket and its current status and stage.
func (s *DragSession) Start(ticket domain.Ticket) {
	s.phase = PhaseDragging
	s.ticketID = ticket.ID
	s.from = ticket.Status
	s.stage = ticket.Stage
}

// HoverOver evaluates a candidate column while dragging. The return value
// drives the drop indicator and whether the native drop effect is enabled.
func (s *DragSession) HoverOver(column domain.Status) bool {
	if s.phase == PhaseIdle {
		return false
	}
	if IsTransitionValid(s.from, column, s.stage) {
		s.phase = PhaseHoveringValid
		return true
	}
	s.phase = PhaseHoveringInvalid
	return false
}

// Leave clears hover state without aborting the drag; only a drop or a
// native drag-cancel finishes the gesture.
func (s *DragSession) Leave() {
	if s.phase == PhaseHoveringValid || s.phase == PhaseHoveringInvalid {
		s.phase = PhaseDragging
	}
}

// Drop re-validates against possibly stale hover state and, when the move is
// legal, commits it through the mover. The session returns to idle either way.
func (s *DragSession) Drop(ctx context.Context, column domain.Status) DropResult {
	result := DropResult{TicketID: s.ticketID, From: s.from, To: column}
	if s.phase == PhaseIdle {
		return result
	}
	defer s.End()
	if !IsTransitionValid(s.from, column, s.stage) {
		return result
	}
	result.Accepted = true
	result.Found = s.mover.Move(ctx, s.actor, s.ticketID, column, s.stage)
	return result
}

// End resets the session to idle regardless of outcome; there is no retry or
// undo.
func (s *DragSession) End() {
	s.phase = PhaseIdle
	s.ticketID = 0
	s.from = ""
	s.stage = ""
}
