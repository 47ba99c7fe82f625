package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

func TestIsTransitionValid(t *testing.T) {
	cases := []struct {
		name  string
		from  domain.Status
		to    domain.Status
		stage domain.Stage
		want  bool
	}{
		{"novo to aguardando-info", domain.StatusNovo, domain.StatusAguardandoInfo, domain.StageClient, true},
		{"aguardando-info back to novo", domain.StatusAguardandoInfo, domain.StatusNovo, domain.StageClient, true},
		{"aguardando-info to aprovado", domain.StatusAguardandoInfo, domain.StatusAprovado, domain.StageClient, true},
		{"novo cannot skip to aprovado", domain.StatusNovo, domain.StatusAprovado, domain.StageClient, false},
		{"aprovado cannot reopen to novo", domain.StatusAprovado, domain.StatusNovo, domain.StageClient, false},
		{"em-analise to planejado", domain.StatusEmAnalise, domain.StatusPlanejado, domain.StageManagement, true},
		{"planejado to atribuido", domain.StatusPlanejado, domain.StatusAtribuido, domain.StageManagement, true},
		{"atribuido back to planejado", domain.StatusAtribuido, domain.StatusPlanejado, domain.StageManagement, true},
		{"em-analise cannot skip to atribuido", domain.StatusEmAnalise, domain.StatusAtribuido, domain.StageManagement, false},
		{"teste to concluido", domain.StatusTeste, domain.StatusConcluido, domain.StageDev, true},
		{"concluido reopens to teste", domain.StatusConcluido, domain.StatusTeste, domain.StageDev, true},
		{"em-desenvolvimento cannot skip to concluido", domain.StatusEmDesenvolvimento, domain.StatusConcluido, domain.StageDev, false},
		{"no self transition", domain.StatusNovo, domain.StatusNovo, domain.StageClient, false},
		{"cross stage move rejected", domain.StatusAprovado, domain.StatusEmAnalise, domain.StageClient, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTransitionValid(tc.from, tc.to, tc.stage))
		})
	}
}

func TestIsTransitionValidUnknownStageFallsBackToClientRules(t *testing.T) {
	// An unrecognized stage is answered with the client stage's rules.
	assert.True(t, IsTransitionValid(domain.StatusNovo, domain.StatusAguardandoInfo, domain.Stage("mystery")))
	assert.False(t, IsTransitionValid(domain.StatusEmAnalise, domain.StatusPlanejado, domain.Stage("mystery")))
}

func TestIsTransitionValidUnknownFromStatusRejectsEverything(t *testing.T) {
	for _, stage := range []domain.Stage{domain.StageClient, domain.StageManagement, domain.StageDev} {
		for _, to := range Columns(stage) {
			assert.False(t, IsTransitionValid(domain.Status("inexistente"), to, stage))
		}
	}
}

func TestNextStatusesReturnsCopy(t *testing.T) {
	next := NextStatuses(domain.StatusAguardandoInfo, domain.StageClient)
	assert.Equal(t, []domain.Status{domain.StatusNovo, domain.StatusAprovado}, next)

	next[0] = domain.StatusConcluido
	assert.Equal(t, []domain.Status{domain.StatusNovo, domain.StatusAprovado},
		NextStatuses(domain.StatusAguardandoInfo, domain.StageClient))
}

func TestColumnsAndInitialStatus(t *testing.T) {
	assert.Equal(t, []domain.Status{domain.StatusNovo, domain.StatusAguardandoInfo, domain.StatusAprovado},
		Columns(domain.StageClient))
	assert.Equal(t, domain.StatusNovo, InitialStatus(domain.StageClient))
	assert.Equal(t, domain.StatusEmAnalise, InitialStatus(domain.StageManagement))
	assert.Equal(t, domain.StatusEmDesenvolvimento, InitialStatus(domain.StageDev))
	assert.Equal(t, domain.StatusNovo, InitialStatus(domain.Stage("mystery")))
}

func TestStageHasStatus(t *testing.T) {
	assert.True(t, StageHasStatus(domain.StageDev, domain.StatusCodeReview))
	assert.False(t, StageHasStatus(domain.StageClient, domain.StatusCodeReview))
	assert.False(t, StageHasStatus(domain.Stage("mystery"), domain.StatusNovo))
}

// Every status reachable in a stage's rule table must belong to that stage's
// column set, so moves driven by the table can never break stage/status
// consistency.
func TestTransitionTargetsStayInsideTheirStage(t *testing.T) {
	for stage, rules := range transitions {
		for from, reachable := range rules {
			assert.True(t, StageHasStatus(stage, from), "from %s in %s", from, stage)
			for _, to := range reachable {
				assert.True(t, StageHasStatus(stage, to), "%s -> %s in %s", from, to, stage)
			}
		}
	}
}
