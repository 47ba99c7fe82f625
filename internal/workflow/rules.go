// Package workflow holds the pipeline rule table and the guards built on it.
// The transition table is the single source of truth for legal moves; no
// other package may hard-code transition logic.
package workflow

import "github.com/spec-kit/ticket-flow/internal/domain"

// transitions maps stage → status → statuses reachable by one user move.
// Stages are disjoint status spaces.
var transitions = map[domain.Stage]map[domain.Status][]domain.Status{
	domain.StageClient: {
		domain.StatusNovo:           {domain.StatusAguardandoInfo},
		domain.StatusAguardandoInfo: {domain.StatusNovo, domain.StatusAprovado},
		domain.StatusAprovado:       {domain.StatusAguardandoInfo},
	},
	domain.StageManagement: {
		domain.StatusEmAnalise: {domain.StatusPlanejado},
		domain.StatusPlanejado: {domain.StatusEmAnalise, domain.StatusAtribuido},
		domain.StatusAtribuido: {domain.StatusPlanejado},
	},
	domain.StageDev: {
		domain.StatusEmDesenvolvimento: {domain.StatusCodeReview},
		domain.StatusCodeReview:        {domain.StatusEmDesenvolvimento, domain.StatusTeste},
		domain.StatusTeste:             {domain.StatusCodeReview, domain.StatusConcluido},
		domain.StatusConcluido:         {domain.StatusTeste},
	},
}

// stageColumns lists each stage's statuses in board order. The first entry is
// the status new tickets enter the stage with.
var stageColumns = map[domain.Stage][]domain.Status{
	domain.StageClient:     {domain.StatusNovo, domain.StatusAguardandoInfo, domain.StatusAprovado},
	domain.StageManagement: {domain.StatusEmAnalise, domain.StatusPlanejado, domain.StatusAtribuido},
	domain.StageDev:        {domain.StatusEmDesenvolvimento, domain.StatusCodeReview, domain.StatusTeste, domain.StatusConcluido},
}

// IsTransitionValid reports whether moving from → to is a legal single-step
// move within the given stage. An unrecognized stage falls back to the client
// stage's rules, matching the behavior the board has always shipped with.
// An unknown from-status has no reachable statuses, so every move from it is
// rejected.
func IsTransitionValid(from, to domain.Status, stage domain.Stage) bool {
	rules, ok := transitions[stage]
	if !ok {
		rules = transitions[domain.StageClient]
	}
	for _, candidate := range rules[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// NextStatuses returns a copy of the statuses reachable from the given
// status in one move.
func NextStatuses(from domain.Status, stage domain.Stage) []domain.Status {
	rules, ok := transitions[stage]
	if !ok {
		rules = transitions[domain.StageClient]
	}
	reachable := rules[from]
	out := make([]domain.Status, len(reachable))
	copy(out, reachable)
	return out
}

// Columns returns the board columns for a stage in display order.
func Columns(stage domain.Stage) []domain.Status {
	cols := stageColumns[stage]
	out := make([]domain.Status, len(cols))
	copy(out, cols)
	return out
}

// InitialStatus returns the status a ticket enters the given stage with.
func InitialStatus(stage domain.Stage) domain.Status {
	cols, ok := stageColumns[stage]
	if !ok || len(cols) == 0 {
		return domain.StatusNovo
	}
	return cols[0]
}

// StageHasStatus reports whether the status belongs to the stage's status
// space.
func StageHasStatus(stage domain.Stage, status domain.Status) bool {
	for _, s := range stageColumns[stage] {
		if s == status {
			return true
		}
	}
	return false
}
