package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreateAndLookup(t *testing.T) {
	s := NewCategoryStore(nil)
	ctx := context.Background()

	created, err := s.Create(ctx, "ana", CategoryInput{Key: "bug", Label: "Bug", Color: "red", Active: true})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	got, ok := s.Get("bug")
	require.True(t, ok)
	assert.Equal(t, "Bug", got.Label)

	_, ok = s.Get("inexistente")
	assert.False(t, ok)

	_, err = s.Create(ctx, "ana", CategoryInput{Key: "bug", Label: "Duplicada"})
	assert.Error(t, err)
	_, err = s.Create(ctx, "ana", CategoryInput{Key: "", Label: "Sem chave"})
	assert.Error(t, err)
}

func TestCategoryListActiveOnly(t *testing.T) {
	s := NewCategoryStore(nil)
	ctx := context.Background()
	s.Create(ctx, "ana", CategoryInput{Key: "bug", Label: "Bug", Active: true})
	created, _ := s.Create(ctx, "ana", CategoryInput{Key: "legacy", Label: "Legado", Active: true})
	s.Update(ctx, "ana", created.ID, CategoryInput{Active: false})

	assert.Len(t, s.List(false), 2)
	active := s.List(true)
	require.Len(t, active, 1)
	assert.Equal(t, "bug", active[0].Key)
}

func TestCategoryMutationsOnMissingIDAreSilentNoops(t *testing.T) {
	s := NewCategoryStore(nil)
	ctx := context.Background()

	assert.False(t, s.Update(ctx, "ana", 42, CategoryInput{Label: "Nada"}))
	assert.False(t, s.Delete(ctx, "ana", 42))
}

func TestCategoryDeleteDoesNotCascade(t *testing.T) {
	categories := NewCategoryStore(nil)
	tickets := NewTicketStore(nil, nil)
	ctx := context.Background()

	created, err := categories.Create(ctx, "ana", CategoryInput{Key: "bug", Label: "Bug", Active: true})
	require.NoError(t, err)
	input := validInput()
	input.Category = "bug"
	ticket, _ := tickets.Create(ctx, "ana", input)

	require.True(t, categories.Delete(ctx, "ana", created.ID))

	// The ticket keeps its now-dangling category key.
	got, _ := tickets.Get(ticket.ID)
	assert.Equal(t, "bug", got.Category)
	_, ok := categories.Get("bug")
	assert.False(t, ok)
}

func TestSeedReferenceDataIsIdempotent(t *testing.T) {
	reg := Registries{
		Tickets:     NewTicketStore(nil, nil),
		Categories:  NewCategoryStore(nil),
		Priorities:  NewPriorityStore(nil),
		Users:       NewUserStore(nil),
		Permissions: NewPermissionStore(nil),
	}
	ctx := context.Background()

	SeedReferenceData(ctx, reg)
	SeedReferenceData(ctx, reg)

	assert.Len(t, reg.Categories.List(false), 5)
	assert.Len(t, reg.Priorities.List(false), 3)
	assert.Len(t, reg.Permissions.ListPermissions(), 8)
	assert.Len(t, reg.Permissions.ListTemplates(), 4)

	admin, ok := reg.Users.GetByEmail("admin@ticketflow.local")
	require.True(t, ok)
	template, _ := reg.Permissions.TemplateForRole(admin.Role)
	assert.ElementsMatch(t, template.Permissions, admin.Permissions)
}

func TestSeedSampleTicketsOnlyRunsOnEmptyStore(t *testing.T) {
	tickets := NewTicketStore(nil, nil)
	ctx := context.Background()

	SeedSampleTickets(ctx, tickets)
	require.Len(t, tickets.List(), 3)

	SeedSampleTickets(ctx, tickets)
	assert.Len(t, tickets.List(), 3)
}
