package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/events"
	"github.com/spec-kit/ticket-flow/pkg/apperrors"
)

// UserInput is the payload for user create/update.
type UserInput struct {
	Name         string
	Email        string
	Role         domain.Role
	Status       domain.UserStatus
	Permissions  []string
	ParentUserID *int
}

// UserStore owns the user registry. Parent/sub-user links are weak id
// references; SubUsers is an informational back-reference only.
type UserStore struct {
	mu         sync.RWMutex
	items      []domain.User
	dispatcher events.Dispatcher
}

// NewUserStore constructs an empty registry.
func NewUserStore(dispatcher events.Dispatcher) *UserStore {
	return &UserStore{dispatcher: dispatcher}
}

// Create adds a user. Email must be unique. When a parent is named, the new
// id is appended to the parent's SubUsers back-reference; a dangling parent
// id is accepted as-is.
func (s *UserStore) Create(ctx context.Context, actor string, input UserInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email are required", nil)
	}

	s.mu.Lock()
	for _, u := range s.items {
		if u.Email == email {
			s.mu.Unlock()
			return nil, apperrors.NewConflict("email already in use", map[string]any{"email": email})
		}
	}
	now := time.Now()
	user := domain.User{
		ID:           nextID(userIDs(s.items)),
		Name:         name,
		Email:        email,
		Role:         input.Role,
		Status:       input.Status,
		Initials:     domain.InitialsFor(name),
		Permissions:  append([]string{}, input.Permissions...),
		ParentUserID: input.ParentUserID,
		SubUsers:     []int{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}
	s.items = append(s.items, user)
	if input.ParentUserID != nil {
		for i := range s.items {
			if s.items[i].ID == *input.ParentUserID {
				s.items[i].SubUsers = append(s.items[i].SubUsers, user.ID)
				break
			}
		}
	}
	s.mu.Unlock()

	s.publish(ctx, actor, "create", email)
	out := cloneUser(user)
	return &out, nil
}

// Update merges input into the user with the given id. A changed name
// re-derives the initials. A missing id is a silent no-op with a nil error.
func (s *UserStore) Update(ctx context.Context, actor string, id int, input UserInput) (bool, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	user := &s.items[idx]
	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
		user.Initials = domain.InitialsFor(name)
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != user.Email {
		for _, other := range s.items {
			if other.ID != id && other.Email == email {
				s.mu.Unlock()
				return false, apperrors.NewConflict("email already in use", map[string]any{"email": email})
			}
		}
		user.Email = email
	}
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.Status != "" {
		user.Status = input.Status
	}
	if input.Permissions != nil {
		user.Permissions = append([]string{}, input.Permissions...)
	}
	user.UpdatedAt = time.Now()
	email := user.Email
	s.mu.Unlock()

	s.publish(ctx, actor, "update", email)
	return true, nil
}

// Delete removes a user by id. The acting user may not delete their own
// account. The id is dropped from the parent's SubUsers back-reference;
// children of the deleted user keep their now-dangling parent id, which is
// not an error. A missing id is a silent no-op with a nil error.
func (s *UserStore) Delete(ctx context.Context, actorID, id int) (bool, error) {
	if actorID == id {
		return false, apperrors.NewConflict("não é possível excluir o próprio usuário", nil)
	}

	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	email := s.items[idx].Email
	parentID := s.items[idx].ParentUserID
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	if parentID != nil {
		for i := range s.items {
			if s.items[i].ID != *parentID {
				continue
			}
			kept := s.items[i].SubUsers[:0]
			for _, sub := range s.items[i].SubUsers {
				if sub != id {
					kept = append(kept, sub)
				}
			}
			s.items[i].SubUsers = kept
			break
		}
	}
	s.mu.Unlock()

	s.publish(ctx, "", "delete", email)
	return true, nil
}

// Get returns a copy of the user with the given id.
func (s *UserStore) Get(id int) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		return domain.User{}, false
	}
	return cloneUser(s.items[idx]), true
}

// GetByEmail returns a copy of the user with the given email.
func (s *UserStore) GetByEmail(email string) (domain.User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.items {
		if u.Email == email {
			return cloneUser(u), true
		}
	}
	return domain.User{}, false
}

// List returns the registry, optionally only active users.
func (s *UserStore) List(activeOnly bool) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.items))
	for _, u := range s.items {
		if activeOnly && u.Status != domain.UserStatusActive {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out
}

// EffectivePermissions resolves a user's permission set: own permissions
// plus those inherited through the parent chain. Dangling parent references
// and cycles terminate the walk silently.
func (s *UserStore) EffectivePermissions(id int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[int]bool{}
	perms := map[string]bool{}
	order := []string{}
	current := id
	for !seen[current] {
		seen[current] = true
		idx := s.indexOfLocked(current)
		if idx < 0 {
			break
		}
		for _, p := range s.items[idx].Permissions {
			if !perms[p] {
				perms[p] = true
				order = append(order, p)
			}
		}
		if s.items[idx].ParentUserID == nil {
			break
		}
		current = *s.items[idx].ParentUserID
	}
	return order
}

// Snapshot returns a copy of the registry.
func (s *UserStore) Snapshot() []domain.User {
	return s.List(false)
}

// Restore replaces the registry from a snapshot.
func (s *UserStore) Restore(items []domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]domain.User, 0, len(items))
	for _, u := range items {
		s.items = append(s.items, cloneUser(u))
	}
}

func (s *UserStore) indexOfLocked(id int) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *UserStore) publish(ctx context.Context, actor, action, key string) {
	publishRegistryChange(ctx, s.dispatcher, actor, "users", action, key)
}

func cloneUser(u domain.User) domain.User {
	out := u
	out.Permissions = append([]string{}, u.Permissions...)
	out.SubUsers = append([]int{}, u.SubUsers...)
	if u.ParentUserID != nil {
		parent := *u.ParentUserID
		out.ParentUserID = &parent
	}
	return out
}

func userIDs(items []domain.User) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
