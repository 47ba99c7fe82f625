package store

import (
	"context"
	"strings"
	"sync"

	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/events"
	"github.com/spec-kit/ticket-flow/pkg/apperrors"
)

// CategoryInput is the payload for category create/update.
type CategoryInput struct {
	Key         string
	Label       string
	Icon        string
	Color       string
	Active      bool
	Description string
}

// CategoryStore owns the ticket classification registry. Tickets reference
// categories by key only, so deleting a category never cascades.
type CategoryStore struct {
	mu         sync.RWMutex
	items      []domain.Category
	dispatcher events.Dispatcher
}

// NewCategoryStore constructs an empty registry.
func NewCategoryStore(dispatcher events.Dispatcher) *CategoryStore {
	return &CategoryStore{dispatcher: dispatcher}
}

// Create adds a category. The key must be unique within the registry.
func (s *CategoryStore) Create(ctx context.Context, actor string, input CategoryInput) (*domain.Category, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" || strings.TrimSpace(input.Label) == "" {
		return nil, apperrors.NewValidationError("key and label are required", nil)
	}

	s.mu.Lock()
	for _, c := range s.items {
		if c.Key == key {
			s.mu.Unlock()
			return nil, apperrors.NewConflict("category key already exists", map[string]any{"key": key})
		}
	}
	category := domain.Category{
		ID:          nextID(categoryIDs(s.items)),
		Key:         key,
		Label:       strings.TrimSpace(input.Label),
		Icon:        input.Icon,
		Color:       input.Color,
		Active:      input.Active,
		Description: input.Description,
	}
	s.items = append(s.items, category)
	s.mu.Unlock()

	s.publish(ctx, actor, "create", key)
	return &category, nil
}

// Update merges the input into the category with the given id. A missing id
// is a silent no-op.
func (s *CategoryStore) Update(ctx context.Context, actor string, id int, input CategoryInput) bool {
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	item := &s.items[idx]
	if strings.TrimSpace(input.Label) != "" {
		item.Label = strings.TrimSpace(input.Label)
	}
	if input.Icon != "" {
		item.Icon = input.Icon
	}
	if input.Color != "" {
		item.Color = input.Color
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	item.Active = input.Active
	key := item.Key
	s.mu.Unlock()

	s.publish(ctx, actor, "update", key)
	return true
}

// Delete removes a category by id. Tickets keep their category key as a
// dangling reference. A missing id is a silent no-op.
func (s *CategoryStore) Delete(ctx context.Context, actor string, id int) bool {
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	key := s.items[idx].Key
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.mu.Unlock()

	s.publish(ctx, actor, "delete", key)
	return true
}

// Get looks a category up by key. A dangling reference from a ticket simply
// reports ok=false.
func (s *CategoryStore) Get(key string) (domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.items {
		if c.Key == key {
			return c, true
		}
	}
	return domain.Category{}, false
}

// List returns the registry, optionally only active entries.
func (s *CategoryStore) List(activeOnly bool) []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, 0, len(s.items))
	for _, c := range s.items {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Snapshot returns a copy of the registry.
func (s *CategoryStore) Snapshot() []domain.Category {
	return s.List(false)
}

// Restore replaces the registry from a snapshot.
func (s *CategoryStore) Restore(items []domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]domain.Category, len(items))
	copy(s.items, items)
}

func (s *CategoryStore) publish(ctx context.Context, actor, action, key string) {
	publishRegistryChange(ctx, s.dispatcher, actor, "categories", action, key)
}

func categoryIDs(items []domain.Category) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
