package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

func TestUserCreateDerivesInitialsAndNormalizesEmail(t *testing.T) {
	s := NewUserStore(nil)

	user, err := s.Create(context.Background(), "admin", UserInput{
		Name:  "Ana Beatriz Silva",
		Email: "Ana.Silva@Example.com",
		Role:  domain.RoleGestor,
	})
	require.NoError(t, err)
	assert.Equal(t, "AS", user.Initials)
	assert.Equal(t, "ana.silva@example.com", user.Email)
	assert.Equal(t, domain.UserStatusActive, user.Status)

	_, err = s.Create(context.Background(), "admin", UserInput{
		Name:  "Outra Pessoa",
		Email: "ANA.SILVA@example.com",
	})
	assert.Error(t, err)
}

func TestInitialsFor(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Ana Silva", "AS"},
		{"Ana Beatriz Costa Silva", "AS"},
		{"Ana", "A"},
		{"élio santos", "ÉS"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.InitialsFor(tc.name), tc.name)
	}
}

func TestUserUpdateRederivesInitials(t *testing.T) {
	s := NewUserStore(nil)
	ctx := context.Background()
	user, err := s.Create(ctx, "admin", UserInput{Name: "Ana Silva", Email: "ana@example.com"})
	require.NoError(t, err)

	found, err := s.Update(ctx, "admin", user.ID, UserInput{Name: "Bruna Costa"})
	require.NoError(t, err)
	assert.True(t, found)

	got, _ := s.Get(user.ID)
	assert.Equal(t, "BC", got.Initials)
	assert.Equal(t, "ana@example.com", got.Email)
}

func TestSubUserBackReference(t *testing.T) {
	s := NewUserStore(nil)
	ctx := context.Background()
	parent, err := s.Create(ctx, "admin", UserInput{Name: "Ana Silva", Email: "ana@example.com"})
	require.NoError(t, err)

	child, err := s.Create(ctx, "admin", UserInput{
		Name:         "Caio Souza",
		Email:        "caio@example.com",
		ParentUserID: &parent.ID,
	})
	require.NoError(t, err)

	gotParent, _ := s.Get(parent.ID)
	assert.Equal(t, []int{child.ID}, gotParent.SubUsers)

	found, err := s.Delete(ctx, 0, child.ID)
	require.NoError(t, err)
	assert.True(t, found)

	gotParent, _ = s.Get(parent.ID)
	assert.Empty(t, gotParent.SubUsers)
}

func TestEffectivePermissionsWalkParentChain(t *testing.T) {
	s := NewUserStore(nil)
	ctx := context.Background()
	grand, _ := s.Create(ctx, "admin", UserInput{
		Name: "Gestora Raiz", Email: "raiz@example.com",
		Permissions: []string{"manage_users"},
	})
	parent, _ := s.Create(ctx, "admin", UserInput{
		Name: "Ana Silva", Email: "ana@example.com",
		Permissions:  []string{"view_tickets", "edit_tickets"},
		ParentUserID: &grand.ID,
	})
	child, _ := s.Create(ctx, "admin", UserInput{
		Name: "Caio Souza", Email: "caio@example.com",
		Permissions:  []string{"view_tickets"},
		ParentUserID: &parent.ID,
	})

	perms := s.EffectivePermissions(child.ID)
	assert.Equal(t, []string{"view_tickets", "edit_tickets", "manage_users"}, perms)
}

func TestEffectivePermissionsSurviveParentCycles(t *testing.T) {
	s := NewUserStore(nil)
	ctx := context.Background()
	a, _ := s.Create(ctx, "admin", UserInput{Name: "Ana Silva", Email: "a@example.com", Permissions: []string{"p_a"}})
	b, _ := s.Create(ctx, "admin", UserInput{
		Name: "Bruno Costa", Email: "b@example.com",
		Permissions: []string{"p_b"}, ParentUserID: &a.ID,
	})

	// Point a back at b to form a cycle; the walk must terminate.
	s.Restore([]domain.User{
		{ID: a.ID, Name: "Ana Silva", Email: "a@example.com", Permissions: []string{"p_a"}, ParentUserID: &b.ID},
		{ID: b.ID, Name: "Bruno Costa", Email: "b@example.com", Permissions: []string{"p_b"}, ParentUserID: &a.ID},
	})

	perms := s.EffectivePermissions(b.ID)
	assert.ElementsMatch(t, []string{"p_a", "p_b"}, perms)
}

func TestUsersCannotDeleteThemselves(t *testing.T) {
	s := NewUserStore(nil)
	ctx := context.Background()
	user, _ := s.Create(ctx, "admin", UserInput{Name: "Ana Silva", Email: "ana@example.com"})

	_, err := s.Delete(ctx, user.ID, user.ID)
	assert.Error(t, err)
	_, ok := s.Get(user.ID)
	assert.True(t, ok)

	found, err := s.Delete(ctx, 999, user.ID)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestUserListActiveOnly(t *testing.T) {
	s := NewUserStore(nil)
	ctx := context.Background()
	s.Create(ctx, "admin", UserInput{Name: "Ana Silva", Email: "ana@example.com"})
	s.Create(ctx, "admin", UserInput{
		Name: "Bruno Costa", Email: "bruno@example.com",
		Status: domain.UserStatusInactive,
	})

	assert.Len(t, s.List(false), 2)
	active := s.List(true)
	require.Len(t, active, 1)
	assert.Equal(t, "ana@example.com", active[0].Email)
}
