package persistence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

func TestTicketSnapshotRoundTrip(t *testing.T) {
	assignee := "Bruno Costa"
	created := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	original := []domain.Ticket{{
		ID:          1,
		Key:         "TK-001",
		Title:       "Erro ao salvar formulário",
		Description: "Formulário não salva ao clicar em enviar",
		Priority:    "high",
		Category:    "bug",
		Client:      "Acme",
		Status:      domain.StatusAguardandoInfo,
		Stage:       domain.StageClient,
		Assignee:    &assignee,
		Tags:        []string{"formulário", "urgente"},
		Comments: []domain.Comment{
			{ID: 1, Author: "ana", Body: "reproduzido em produção", CreatedAt: created.Add(time.Hour)},
		},
		CreatedAt: created,
		UpdatedAt: created.Add(2 * time.Hour),
	}}

	blob, err := json.Marshal(ticketsSnap{Tickets: ticketsToSnap(original)})
	require.NoError(t, err)

	// Dates travel in the tagged local-storage format.
	assert.Contains(t, string(blob), `"__type":"Date"`)

	var decoded ticketsSnap
	require.NoError(t, json.Unmarshal(blob, &decoded))
	restored := ticketsFromSnap(decoded.Tickets)

	require.Len(t, restored, 1)
	got := restored[0]
	assert.Equal(t, original[0].Key, got.Key)
	assert.Equal(t, original[0].Tags, got.Tags)
	require.NotNil(t, got.Assignee)
	assert.Equal(t, assignee, *got.Assignee)
	require.Len(t, got.Comments, 1)
	assert.True(t, original[0].Comments[0].CreatedAt.Equal(got.Comments[0].CreatedAt))
	assert.True(t, original[0].CreatedAt.Equal(got.CreatedAt))
	assert.True(t, original[0].UpdatedAt.Equal(got.UpdatedAt))
}

func TestTicketSnapshotNilTagsBecomeEmpty(t *testing.T) {
	restored := ticketsFromSnap([]ticketSnap{{ID: 2, Key: "TK-002"}})
	require.Len(t, restored, 1)
	assert.NotNil(t, restored[0].Tags)
	assert.Empty(t, restored[0].Tags)
}
