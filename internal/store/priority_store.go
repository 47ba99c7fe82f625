package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/events"
	"github.com/spec-kit/ticket-flow/pkg/apperrors"
)

// PriorityInput is the payload for priority create/update.
type PriorityInput struct {
	Key    string
	Label  string
	Level  int
	Color  string
	Icon   string
	Active bool
}

// PriorityStore owns the priority registry. Beyond field validation it
// enforces a single invariant: the set of active priorities must never
// become empty.
type PriorityStore struct {
	mu         sync.RWMutex
	items      []domain.Priority
	dispatcher events.Dispatcher
}

// NewPriorityStore constructs an empty registry.
func NewPriorityStore(dispatcher events.Dispatcher) *PriorityStore {
	return &PriorityStore{dispatcher: dispatcher}
}

// Create adds a priority. The key must be unique within the registry.
func (s *PriorityStore) Create(ctx context.Context, actor string, input PriorityInput) (*domain.Priority, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" || strings.TrimSpace(input.Label) == "" {
		return nil, apperrors.NewValidationError("key and label are required", nil)
	}

	s.mu.Lock()
	for _, p := range s.items {
		if p.Key == key {
			s.mu.Unlock()
			return nil, apperrors.NewConflict("priority key already exists", map[string]any{"key": key})
		}
	}
	priority := domain.Priority{
		ID:     nextID(priorityIDs(s.items)),
		Key:    key,
		Label:  strings.TrimSpace(input.Label),
		Level:  input.Level,
		Color:  input.Color,
		Icon:   input.Icon,
		Active: input.Active,
	}
	s.items = append(s.items, priority)
	s.mu.Unlock()

	s.publish(ctx, actor, "create", key)
	return &priority, nil
}

// Update merges input into the priority with the given id. Deactivating the
// last remaining active priority is rejected and leaves the registry
// unchanged. A missing id is a silent no-op with a nil error.
func (s *PriorityStore) Update(ctx context.Context, actor string, id int, input PriorityInput) (bool, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	item := &s.items[idx]
	if item.Active && !input.Active && s.activeCountLocked() == 1 {
		s.mu.Unlock()
		return false, apperrors.NewConflict("pelo menos uma prioridade ativa é necessária", nil)
	}
	if strings.TrimSpace(input.Label) != "" {
		item.Label = strings.TrimSpace(input.Label)
	}
	if input.Level != 0 {
		item.Level = input.Level
	}
	if input.Color != "" {
		item.Color = input.Color
	}
	if input.Icon != "" {
		item.Icon = input.Icon
	}
	item.Active = input.Active
	key := item.Key
	s.mu.Unlock()

	s.publish(ctx, actor, "update", key)
	return true, nil
}

// Delete removes a priority by id, unless it is the last active one, in
// which case the delete is rejected and the registry left unchanged. A
// missing id is a silent no-op with a nil error.
func (s *PriorityStore) Delete(ctx context.Context, actor string, id int) (bool, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	if s.items[idx].Active && s.activeCountLocked() == 1 {
		s.mu.Unlock()
		return false, apperrors.NewConflict("pelo menos uma prioridade ativa é necessária", nil)
	}
	key := s.items[idx].Key
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.mu.Unlock()

	s.publish(ctx, actor, "delete", key)
	return true, nil
}

// Get looks a priority up by key.
func (s *PriorityStore) Get(key string) (domain.Priority, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.items {
		if p.Key == key {
			return p, true
		}
	}
	return domain.Priority{}, false
}

// List returns priorities ordered by level descending (most urgent first),
// optionally only active entries.
func (s *PriorityStore) List(activeOnly bool) []domain.Priority {
	s.mu.RLock()
	out := make([]domain.Priority, 0, len(s.items))
	for _, p := range s.items {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Level > out[j].Level })
	return out
}

// ActiveCount returns the number of active priorities.
func (s *PriorityStore) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeCountLocked()
}

// Snapshot returns a copy of the registry in insertion order.
func (s *PriorityStore) Snapshot() []domain.Priority {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Priority, len(s.items))
	copy(out, s.items)
	return out
}

// Restore replaces the registry from a snapshot.
func (s *PriorityStore) Restore(items []domain.Priority) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]domain.Priority, len(items))
	copy(s.items, items)
}

func (s *PriorityStore) indexOfLocked(id int) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *PriorityStore) activeCountLocked() int {
	count := 0
	for _, p := range s.items {
		if p.Active {
			count++
		}
	}
	return count
}

func (s *PriorityStore) publish(ctx context.Context, actor, action, key string) {
	publishRegistryChange(ctx, s.dispatcher, actor, "priorities", action, key)
}

func priorityIDs(items []domain.Priority) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
