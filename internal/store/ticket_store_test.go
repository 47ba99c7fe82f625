package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/workflow"
)

func validInput() TicketInput {
	return TicketInput{
		Title:       "Impressora não funciona",
		Description: "A impressora do segundo andar parou de responder",
		Priority:    "medium",
		Category:    "support",
		Client:      "Acme",
	}
}

func TestCreateAssignsSequentialIDsAndKeys(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()

	first, result := s.Create(ctx, "ana", validInput())
	require.True(t, result.IsValid)
	second, _ := s.Create(ctx, "ana", validInput())

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "TK-001", first.Key)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "TK-002", second.Key)
	assert.Equal(t, domain.StageClient, first.Stage)
	assert.Equal(t, domain.StatusNovo, first.Status)
	assert.Empty(t, first.Tags)
	assert.Empty(t, first.Comments)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)
}

// Ids are max-existing+1, so deleting the highest ticket frees its id.
func TestTicketIDsAreMaxPlusOne(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()

	s.Create(ctx, "ana", validInput())
	second, _ := s.Create(ctx, "ana", validInput())
	s.Delete(ctx, "ana", second.ID)

	third, _ := s.Create(ctx, "ana", validInput())
	assert.Equal(t, 2, third.ID)
	assert.Equal(t, "TK-002", third.Key)
}

func TestValidateTicketForm(t *testing.T) {
	cases := []struct {
		name   string
		input  TicketInput
		field  string
		errMsg string
	}{
		{"empty title", TicketInput{Description: "descrição longa o bastante", Client: "Acme"},
			"title", "título é obrigatório"},
		{"short title", TicketInput{Title: "Oi", Description: "descrição longa o bastante", Client: "Acme"},
			"title", "título deve ter pelo menos 5 caracteres"},
		{"empty description", TicketInput{Title: "Título válido", Client: "Acme"},
			"description", "descrição é obrigatória"},
		{"short description", TicketInput{Title: "Título válido", Description: "curta", Client: "Acme"},
			"description", "descrição deve ter pelo menos 10 caracteres"},
		{"empty client", TicketInput{Title: "Título válido", Description: "descrição longa o bastante"},
			"client", "cliente é obrigatório"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ValidateTicketForm(tc.input)
			assert.False(t, result.IsValid)
			assert.Equal(t, tc.errMsg, result.Errors[tc.field])
		})
	}

	t.Run("accent counts as one character", func(t *testing.T) {
		// "éíóúã" is 5 runes but 10 bytes; rune counting must accept it.
		result := ValidateTicketForm(TicketInput{
			Title:       "éíóúã",
			Description: "descrição longa o bastante",
			Client:      "Acme",
		})
		assert.True(t, result.IsValid)
	})

	t.Run("valid payload", func(t *testing.T) {
		result := ValidateTicketForm(validInput())
		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
	})
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	s := NewTicketStore(nil, nil)

	ticket, result := s.Create(context.Background(), "ana", TicketInput{Title: "Oi"})

	assert.Nil(t, ticket)
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 3)
	assert.Empty(t, s.List())
}

func TestUpdateMergesPartialPatch(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()
	created, _ := s.Create(ctx, "ana", validInput())

	title := "Impressora voltou a falhar"
	assignee := "Bruno Costa"
	found := s.Update(ctx, "ana", created.ID, TicketPatch{Title: &title, Assignee: &assignee})
	require.True(t, found)

	got, ok := s.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, title, got.Title)
	require.NotNil(t, got.Assignee)
	assert.Equal(t, assignee, *got.Assignee)
	assert.Equal(t, created.Description, got.Description)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt) || got.UpdatedAt.Equal(created.UpdatedAt))

	empty := ""
	s.Update(ctx, "ana", created.ID, TicketPatch{Assignee: &empty})
	got, _ = s.Get(created.ID)
	assert.Nil(t, got.Assignee)
}

func TestMutationsOnMissingIDAreSilentNoops(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()
	title := "novo título"

	assert.False(t, s.Update(ctx, "ana", 99, TicketPatch{Title: &title}))
	assert.False(t, s.Move(ctx, "ana", 99, domain.StatusAprovado, domain.StageClient))
	assert.False(t, s.Delete(ctx, "ana", 99))
	comment, ok := s.AddComment(ctx, "ana", 99, "olá")
	assert.Nil(t, comment)
	assert.False(t, ok)
	assert.Empty(t, s.Logs(0))
}

func TestMoveDoesNotValidateTransitions(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()
	created, _ := s.Create(ctx, "ana", validInput())

	// Cross-stage nonsense goes straight through: Move trusts its callers.
	found := s.Move(ctx, "ana", created.ID, domain.StatusConcluido, domain.StageDev)
	require.True(t, found)

	got, _ := s.Get(created.ID)
	assert.Equal(t, domain.StatusConcluido, got.Status)
	assert.Equal(t, domain.StageDev, got.Stage)
}

func TestCommentIDsAreMaxPlusOnePerTicket(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()
	created, _ := s.Create(ctx, "ana", validInput())
	other, _ := s.Create(ctx, "ana", validInput())

	first, _ := s.AddComment(ctx, "ana", created.ID, "primeiro")
	second, _ := s.AddComment(ctx, "bruno", created.ID, "segundo")
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	// Ids are scoped per ticket, not global.
	otherFirst, _ := s.AddComment(ctx, "ana", other.ID, "em outro ticket")
	assert.Equal(t, 1, otherFirst.ID)

	got, _ := s.Get(created.ID)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "ana", got.Comments[0].Author)
	assert.Equal(t, "bruno", got.Comments[1].Author)
}

func TestDeleteRemovesTicketAndComments(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()
	created, _ := s.Create(ctx, "ana", validInput())
	s.AddComment(ctx, "ana", created.ID, "vai junto")

	assert.True(t, s.Delete(ctx, "ana", created.ID))
	_, ok := s.Get(created.ID)
	assert.False(t, ok)
}

func TestStatsRecomputedFromLiveCollection(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()

	input := validInput()
	s.Create(ctx, "ana", input)
	input.Priority = "high"
	input.Category = "bug"
	second, _ := s.Create(ctx, "ana", input)
	s.Move(ctx, "ana", second.ID, domain.StatusEmAnalise, domain.StageManagement)

	stats := s.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStage[domain.StageClient])
	assert.Equal(t, 1, stats.ByStage[domain.StageManagement])
	assert.Equal(t, 1, stats.ByPriority["medium"])
	assert.Equal(t, 1, stats.ByPriority["high"])
	assert.Equal(t, 1, stats.ByCategory["support"])
	assert.Equal(t, 1, stats.ByCategory["bug"])

	s.Delete(ctx, "ana", second.ID)
	assert.Equal(t, 1, s.Stats().Total)
	assert.Zero(t, s.Stats().ByStage[domain.StageManagement])
}

func TestLogsAreNewestFirstAndCapped(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()
	created, _ := s.Create(ctx, "ana", validInput())
	s.AddComment(ctx, "ana", created.ID, "comentário")

	logs := s.Logs(0)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.ActivityComment, logs[0].Type)
	assert.Equal(t, domain.ActivityCreate, logs[1].Type)
	assert.Equal(t, created.Key, logs[0].EntityID)

	for i := 0; i < maxLogEntries+10; i++ {
		s.RecordSystemEvent(ctx, "tick")
	}
	assert.Len(t, s.Logs(0), maxLogEntries)
	assert.Len(t, s.Logs(5), 5)
}

func TestImportAcceptsPayloadsAsIs(t *testing.T) {
	s := NewTicketStore(nil, nil)

	created := s.Import(context.Background(), "ana", []TicketInput{
		{Title: "Linha válida da planilha", Description: "vinda do importador", Client: "Acme", Priority: "medium"},
		{Title: "Outra linha válida", Description: "também já filtrada", Client: "Globex", Priority: "high"},
	})

	require.Len(t, created, 2)
	assert.Equal(t, "TK-001", created[0].Key)
	assert.Equal(t, "TK-002", created[1].Key)
	for _, ticket := range created {
		assert.Equal(t, domain.StageClient, ticket.Stage)
		assert.Equal(t, domain.StatusNovo, ticket.Status)
		assert.Empty(t, ticket.Tags)
		assert.Empty(t, ticket.Comments)
	}
	logs := s.Logs(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "2 tickets importados", logs[0].Detail)
}

func TestListAndGetReturnCopies(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()
	created, _ := s.Create(ctx, "ana", validInput())
	s.AddComment(ctx, "ana", created.ID, "original")

	got, _ := s.Get(created.ID)
	got.Title = "mutado"
	got.Comments[0].Body = "mutado"

	fresh, _ := s.Get(created.ID)
	assert.Equal(t, created.Title, fresh.Title)
	assert.Equal(t, "original", fresh.Comments[0].Body)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()
	created, _ := s.Create(ctx, "ana", validInput())
	s.AddComment(ctx, "ana", created.ID, "persistido")

	tickets, logs := s.Snapshot()

	restored := NewTicketStore(nil, nil)
	restored.Restore(tickets, logs)

	got, ok := restored.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, created.Key, got.Key)
	assert.Len(t, got.Comments, 1)
	assert.Len(t, restored.Logs(0), 2)

	// Ids keep counting from where the snapshot left off.
	next, _ := restored.Create(ctx, "ana", validInput())
	assert.Equal(t, created.ID+1, next.ID)
}

// Full walkthrough of the board flow: create, a legal move, then a direct
// Move that bypasses validation on purpose.
func TestCreateAndMoveScenario(t *testing.T) {
	s := NewTicketStore(nil, nil)
	ctx := context.Background()

	created, result := s.Create(ctx, "ana", TicketInput{
		Title:       "Erro ao salvar formulário",
		Description: "Formulário não salva ao clicar em enviar",
		Client:      "Acme",
		Priority:    "high",
		Category:    "bug",
	})
	require.True(t, result.IsValid)
	assert.Equal(t, domain.StageClient, created.Stage)
	assert.Equal(t, domain.StatusNovo, created.Status)
	assert.Equal(t, domain.TicketKey(created.ID), created.Key)
	assert.Empty(t, created.Tags)
	assert.Empty(t, created.Comments)

	require.True(t, workflow.IsTransitionValid(created.Status, domain.StatusAguardandoInfo, created.Stage))
	require.True(t, s.Move(ctx, "ana", created.ID, domain.StatusAguardandoInfo, domain.StageClient))
	got, _ := s.Get(created.ID)
	assert.Equal(t, domain.StatusAguardandoInfo, got.Status)

	// Direct Move skips the validator entirely.
	require.True(t, s.Move(ctx, "ana", created.ID, domain.StatusPlanejado, domain.StageClient))
	got, _ = s.Get(created.ID)
	assert.Equal(t, domain.StatusPlanejado, got.Status)
	assert.Equal(t, domain.StageClient, got.Stage)
}
