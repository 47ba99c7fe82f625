package search

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

type stubSource struct {
	tickets  []domain.Ticket
	revision uint64
}

func (s *stubSource) List() []domain.Ticket { return s.tickets }
func (s *stubSource) Revision() uint64      { return s.revision }

func (s *stubSource) add(t domain.Ticket) {
	s.tickets = append(s.tickets, t)
	s.revision++
}

func ticket(id int, title, description string) domain.Ticket {
	return domain.Ticket{
		ID:          id,
		Key:         domain.TicketKey(id),
		Title:       title,
		Description: description,
		Category:    "bug",
		Priority:    "medium",
		Client:      "Acme",
		Status:      domain.StatusNovo,
		Stage:       domain.StageClient,
		CreatedAt:   time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestSearchWeighsFieldsByImportance(t *testing.T) {
	source := &stubSource{}
	source.add(ticket(1, "Impressora parada", "fila de trabalhos travada"))
	source.add(ticket(2, "Monitor piscando", "a impressora reserva assumiu"))
	source.add(domain.Ticket{
		ID: 3, Key: "TK-003", Title: "Teclado quebrado",
		Description: "algumas teclas não respondem",
		Client:      "Impressora Express LTDA",
		Status:      domain.StatusNovo, Stage: domain.StageClient,
	})
	source.add(ticket(4, "Sem relação", "nada a ver com o assunto"))
	engine := NewEngine(source, nil)

	results := engine.Search("impressora", Filters{})

	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Record.ID)
	assert.Equal(t, 3, results[0].Score)
	assert.Equal(t, 2, results[1].Record.ID)
	assert.Equal(t, 2, results[1].Score)
	assert.Equal(t, 3, results[2].Record.ID)
	assert.Equal(t, 1, results[2].Score)
}

func TestSearchSumsAcrossFieldsAndTerms(t *testing.T) {
	source := &stubSource{}
	source.add(ticket(1, "Erro no formulário", "o formulário apresenta erro ao enviar"))
	engine := NewEngine(source, nil)

	results := engine.Search("erro formulário", Filters{})

	require.Len(t, results, 1)
	// Both terms hit title (2×3) and description (2×2).
	assert.Equal(t, 10, results[0].Score)

	fields := make([]string, 0, len(results[0].Matches))
	for _, m := range results[0].Matches {
		fields = append(fields, m.Field)
		assert.ElementsMatch(t, []string{"erro", "formulário"}, m.Terms)
	}
	assert.Equal(t, []string{"title", "description"}, fields)
}

func TestSearchTiesKeepCollectionOrder(t *testing.T) {
	source := &stubSource{}
	source.add(ticket(1, "Impressora um", "primeiro registro"))
	source.add(ticket(2, "Impressora dois", "segundo registro"))
	source.add(ticket(3, "Impressora três", "terceiro registro"))
	engine := NewEngine(source, nil)

	results := engine.Search("impressora", Filters{})

	require.Len(t, results, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{results[0].Record.ID, results[1].Record.ID, results[2].Record.ID})
}

// Adding tickets must never change the score of existing matches.
func TestSearchScoresAreIndependentOfCollectionSize(t *testing.T) {
	source := &stubSource{}
	source.add(ticket(1, "Impressora parada", "fila travada novamente"))
	engine := NewEngine(source, nil)

	before := engine.Search("impressora", Filters{})
	require.Len(t, before, 1)

	source.add(ticket(2, "Impressora nova", "mais um chamado de impressora"))
	after := engine.Search("impressora", Filters{})

	require.Len(t, after, 2)
	for _, r := range after {
		if r.Record.ID == 1 {
			assert.Equal(t, before[0].Score, r.Score)
		}
	}
}

func TestSearchZeroScoreExcluded(t *testing.T) {
	source := &stubSource{}
	source.add(ticket(1, "Monitor piscando", "imagem instável"))
	engine := NewEngine(source, nil)

	assert.Empty(t, engine.Search("impressora", Filters{}))
}

func TestEmptyQueryReturnsFilteredSetUnscored(t *testing.T) {
	source := &stubSource{}
	source.add(ticket(1, "Primeiro chamado", "descrição qualquer"))
	source.add(ticket(2, "Segundo chamado", "descrição qualquer"))
	engine := NewEngine(source, nil)

	results := engine.Search("   ", Filters{})

	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Record.ID)
	assert.Zero(t, results[0].Score)
	assert.Empty(t, results[0].Matches)
}

func TestFiltersApplyBeforeScoring(t *testing.T) {
	source := &stubSource{}
	high := ticket(1, "Impressora parada", "chamado urgente")
	high.Priority = "high"
	source.add(high)
	low := ticket(2, "Impressora lenta", "chamado comum")
	low.Priority = "low"
	source.add(low)
	engine := NewEngine(source, nil)

	results := engine.Search("impressora", Filters{Priority: "high"})
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Record.ID)
}

func TestDateRangeFilterIsInclusive(t *testing.T) {
	source := &stubSource{}
	inside := ticket(1, "Dentro do período", "criado no limite")
	source.add(inside)
	outside := ticket(2, "Fora do período", "criado depois")
	outside.CreatedAt = inside.CreatedAt.Add(48 * time.Hour)
	source.add(outside)
	engine := NewEngine(source, nil)

	from := inside.CreatedAt
	to := inside.CreatedAt
	results := engine.Search("", Filters{CreatedFrom: &from, CreatedTo: &to})

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Record.ID)
}

func TestProjectionRebuildsOnlyWhenRevisionMoves(t *testing.T) {
	source := &stubSource{}
	source.add(ticket(1, "Impressora parada", "fila travada"))
	engine := NewEngine(source, nil)

	require.Len(t, engine.Search("impressora", Filters{}), 1)

	// Mutating the slice without bumping the revision is not picked up.
	source.tickets = append(source.tickets, ticket(2, "Impressora extra", "sem revisão"))
	assert.Len(t, engine.Search("impressora", Filters{}), 1)

	source.revision++
	assert.Len(t, engine.Search("impressora", Filters{}), 2)
}

func TestSearchRecordsHistory(t *testing.T) {
	source := &stubSource{}
	source.add(ticket(1, "Impressora parada", "fila travada"))
	history := NewHistory(10)
	engine := NewEngine(source, history)

	engine.Search("impressora", Filters{})
	engine.Search("", Filters{})

	// Only non-empty queries land in the history.
	assert.Equal(t, []string{"impressora"}, history.Recent())
	assert.Equal(t, []string{"impressora"}, engine.Suggestions())
}

func TestOptionsListDistinctSortedValues(t *testing.T) {
	source := &stubSource{}
	a := ticket(1, "Um", "primeiro")
	a.Category = "support"
	assignee := "Bruno Costa"
	a.Assignee = &assignee
	source.add(a)
	b := ticket(2, "Dois", "segundo")
	b.Category = "bug"
	source.add(b)
	c := ticket(3, "Três", "terceiro")
	c.Category = "bug"
	c.Status = domain.StatusEmAnalise
	c.Stage = domain.StageManagement
	source.add(c)
	engine := NewEngine(source, nil)

	opts := engine.Options()
	assert.Equal(t, []string{"bug", "support"}, opts.Categories)
	assert.Equal(t, []string{"medium"}, opts.Priorities)
	assert.Equal(t, []string{"Bruno Costa"}, opts.Assignees)
	assert.ElementsMatch(t, []domain.Status{domain.StatusNovo, domain.StatusEmAnalise}, opts.Statuses)
	assert.ElementsMatch(t, []domain.Stage{domain.StageClient, domain.StageManagement}, opts.Stages)
}

func TestSnippetWindowsAroundFirstOccurrence(t *testing.T) {
	t.Run("short text returned whole", func(t *testing.T) {
		assert.Equal(t, "texto curto", snippet("texto curto", []string{"curto"}))
	})

	t.Run("no match truncates plainly", func(t *testing.T) {
		long := strings.Repeat("a", 150)
		out := snippet(long, []string{"zzz"})
		assert.Equal(t, strings.Repeat("a", previewWindow)+"...", out)
	})

	t.Run("match deep in the text gets a lead-in", func(t *testing.T) {
		long := strings.Repeat("x", 200) + " impressora " + strings.Repeat("y", 200)
		out := snippet(long, []string{"impressora"})

		assert.True(t, strings.HasPrefix(out, "..."))
		assert.True(t, strings.HasSuffix(out, "..."))
		assert.Contains(t, out, "impressora")
		// 120-rune window plus the two ellipses.
		assert.Equal(t, previewWindow+6, len([]rune(out)))
		// The lead-in puts 20 runes of context before the term.
		body := strings.TrimSuffix(strings.TrimPrefix(out, "..."), "...")
		assert.Equal(t, previewLead, strings.Index(body, "impressora"))
	})
}
