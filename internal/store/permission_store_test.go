package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

func TestCreatePermissionValidatesSlug(t *testing.T) {
	s := NewPermissionStore(nil)
	ctx := context.Background()

	for _, id := range []string{"", "View Tickets", "view-tickets", "VIEW_TICKETS", "ação"} {
		t.Run(fmt.Sprintf("rejects %q", id), func(t *testing.T) {
			_, err := s.CreatePermission(ctx, "ana", PermissionInput{ID: id, Label: "Ver"})
			assert.Error(t, err)
		})
	}

	created, err := s.CreatePermission(ctx, "ana", PermissionInput{
		ID:       "view_tickets2",
		Label:    "Ver Tickets",
		Category: domain.PermissionCategoryBasic,
	})
	require.NoError(t, err)
	assert.Equal(t, "view_tickets2", created.ID)
	assert.False(t, created.IsSystemPermission)

	_, err = s.CreatePermission(ctx, "ana", PermissionInput{ID: "view_tickets2", Label: "Duplicada"})
	assert.Error(t, err)
}

func TestSystemPermissionsAreImmutable(t *testing.T) {
	s := NewPermissionStore(nil)
	ctx := context.Background()
	_, err := s.CreatePermission(ctx, "system", PermissionInput{
		ID:                 "manage_users",
		Label:              "Gerenciar Usuários",
		Category:           domain.PermissionCategoryAdmin,
		IsSystemPermission: true,
	})
	require.NoError(t, err)

	t.Run("rename rejected", func(t *testing.T) {
		_, err := s.UpdatePermission(ctx, "ana", "manage_users", PermissionInput{Label: "Outro Nome"})
		assert.Error(t, err)
	})

	t.Run("recategorize rejected", func(t *testing.T) {
		_, err := s.UpdatePermission(ctx, "ana", "manage_users", PermissionInput{Category: domain.PermissionCategoryBasic})
		assert.Error(t, err)
	})

	t.Run("description edit allowed", func(t *testing.T) {
		found, err := s.UpdatePermission(ctx, "ana", "manage_users", PermissionInput{Description: "nova descrição"})
		require.NoError(t, err)
		assert.True(t, found)
		perm, _ := s.GetPermission("manage_users")
		assert.Equal(t, "nova descrição", perm.Description)
		assert.Equal(t, "Gerenciar Usuários", perm.Label)
	})

	t.Run("delete rejected", func(t *testing.T) {
		_, err := s.DeletePermission(ctx, "ana", "manage_users")
		assert.Error(t, err)
		_, ok := s.GetPermission("manage_users")
		assert.True(t, ok)
	})
}

func TestNonSystemPermissionLifecycle(t *testing.T) {
	s := NewPermissionStore(nil)
	ctx := context.Background()
	_, err := s.CreatePermission(ctx, "ana", PermissionInput{ID: "export_reports", Label: "Exportar"})
	require.NoError(t, err)

	found, err := s.UpdatePermission(ctx, "ana", "export_reports", PermissionInput{Label: "Exportar Relatórios"})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.DeletePermission(ctx, "ana", "export_reports")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.UpdatePermission(ctx, "ana", "export_reports", PermissionInput{Label: "Tarde demais"})
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestDefaultTemplatesCannotBeDeleted(t *testing.T) {
	s := NewPermissionStore(nil)
	ctx := context.Background()

	def, err := s.CreateTemplate(ctx, "system", RoleTemplateInput{
		Name: "Administrador", Role: domain.RoleAdmin, Permissions: []string{"manage_users"}, IsDefault: true,
	})
	require.NoError(t, err)
	custom, err := s.CreateTemplate(ctx, "ana", RoleTemplateInput{
		Name: "Plantão", Role: domain.RoleSuporte, Permissions: []string{"view_tickets"},
	})
	require.NoError(t, err)

	_, err = s.DeleteTemplate(ctx, "ana", def.ID)
	assert.Error(t, err)

	found, err := s.DeleteTemplate(ctx, "ana", custom.ID)
	require.NoError(t, err)
	assert.True(t, found)

	got, ok := s.TemplateForRole(domain.RoleAdmin)
	require.True(t, ok)
	assert.Equal(t, def.Name, got.Name)
}

func TestChangeHistoryCapEvictsOldest(t *testing.T) {
	s := NewPermissionStore(nil)
	ctx := context.Background()

	for i := 0; i < maxPermissionChanges+1; i++ {
		s.RecordChange(ctx, ChangeInput{
			UserID:       1,
			UserName:     "Ana Silva",
			Action:       domain.PermissionActionGrant,
			PermissionID: "view_tickets",
			NewValue:     true,
			ChangedBy:    "admin",
		})
	}

	history := s.History()
	require.Len(t, history, maxPermissionChanges)
	// The very first entry (id 1) was evicted.
	assert.Equal(t, 2, history[0].ID)
	assert.Equal(t, maxPermissionChanges+1, history[len(history)-1].ID)
}

func TestRecordChangeCarriesAuditFields(t *testing.T) {
	s := NewPermissionStore(nil)

	change := s.RecordChange(context.Background(), ChangeInput{
		UserID:        7,
		UserName:      "Bruno Costa",
		Action:        domain.PermissionActionRevoke,
		PermissionID:  "manage_users",
		PreviousValue: true,
		NewValue:      false,
		ChangedBy:     "admin",
		Reason:        "troca de equipe",
	})

	assert.Equal(t, 1, change.ID)
	assert.Equal(t, 7, change.UserID)
	assert.Equal(t, domain.PermissionActionRevoke, change.Action)
	assert.True(t, change.PreviousValue)
	assert.False(t, change.NewValue)
	assert.Equal(t, "troca de equipe", change.Reason)
	assert.False(t, change.CreatedAt.IsZero())
}
