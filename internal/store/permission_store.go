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

// maxPermissionChanges caps the permission-change history; the oldest
// entries are evicted first.
const maxPermissionChanges = 1000

// PermissionInput is the payload for permission create/update.
type PermissionInput struct {
	ID                 string
	Label              string
	Description        string
	Category           domain.PermissionCategory
	IsSystemPermission bool
}

// RoleTemplateInput is the payload for role template create/update.
type RoleTemplateInput struct {
	Name        string
	Role        domain.Role
	Permissions []string
	IsDefault   bool
}

// ChangeInput describes one permission-set mutation for the audit history.
type ChangeInput struct {
	UserID        int
	UserName      string
	Action        domain.PermissionAction
	PermissionID  string
	PreviousValue bool
	NewValue      bool
	ChangedBy     string
	Reason        string
}

// PermissionStore owns permissions, role templates, and the permission
// change history.
type PermissionStore struct {
	mu         sync.RWMutex
	items      []domain.Permission
	templates  []domain.RoleTemplate
	changes    []domain.PermissionChange
	nextChange int
	dispatcher events.Dispatcher
}

// NewPermissionStore constructs an empty store.
func NewPermissionStore(dispatcher events.Dispatcher) *PermissionStore {
	return &PermissionStore{dispatcher: dispatcher, nextChange: 1}
}

// CreatePermission adds a permission. The id must be a lowercase+underscore
// slug and unique.
func (s *PermissionStore) CreatePermission(ctx context.Context, actor string, input PermissionInput) (*domain.Permission, error) {
	id := strings.TrimSpace(input.ID)
	if !isPermissionSlug(id) {
		return nil, apperrors.NewValidationError("permission id must be a lowercase_underscore slug", map[string]any{"id": id})
	}
	if strings.TrimSpace(input.Label) == "" {
		return nil, apperrors.NewValidationError("label is required", nil)
	}

	s.mu.Lock()
	for _, p := range s.items {
		if p.ID == id {
			s.mu.Unlock()
			return nil, apperrors.NewConflict("permission already exists", map[string]any{"id": id})
		}
	}
	now := time.Now()
	permission := domain.Permission{
		ID:                 id,
		Label:              strings.TrimSpace(input.Label),
		Description:        input.Description,
		Category:           input.Category,
		IsSystemPermission: input.IsSystemPermission,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.items = append(s.items, permission)
	s.mu.Unlock()

	s.publish(ctx, actor, "create", id)
	return &permission, nil
}

// UpdatePermission edits label/description/category. System permissions may
// not be renamed or recategorized; attempts are rejected and leave the
// record unmodified. A missing id is a silent no-op with a nil error.
func (s *PermissionStore) UpdatePermission(ctx context.Context, actor, id string, input PermissionInput) (bool, error) {
	s.mu.Lock()
	idx := s.permissionIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	perm := &s.items[idx]
	if perm.IsSystemPermission {
		renamed := strings.TrimSpace(input.Label) != "" && strings.TrimSpace(input.Label) != perm.Label
		recategorized := input.Category != "" && input.Category != perm.Category
		if renamed || recategorized {
			s.mu.Unlock()
			return false, apperrors.NewConflict("system permissions cannot be renamed or recategorized", map[string]any{"id": id})
		}
	}
	if label := strings.TrimSpace(input.Label); label != "" {
		perm.Label = label
	}
	if input.Description != "" {
		perm.Description = input.Description
	}
	if input.Category != "" {
		perm.Category = input.Category
	}
	perm.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.publish(ctx, actor, "update", id)
	return true, nil
}

// DeletePermission removes a permission. System permissions cannot be
// deleted. A missing id is a silent no-op with a nil error.
func (s *PermissionStore) DeletePermission(ctx context.Context, actor, id string) (bool, error) {
	s.mu.Lock()
	idx := s.permissionIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	if s.items[idx].IsSystemPermission {
		s.mu.Unlock()
		return false, apperrors.NewConflict("system permissions cannot be deleted", map[string]any{"id": id})
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.mu.Unlock()

	s.publish(ctx, actor, "delete", id)
	return true, nil
}

// GetPermission looks a permission up by slug.
func (s *PermissionStore) GetPermission(id string) (domain.Permission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.permissionIndexLocked(id)
	if idx < 0 {
		return domain.Permission{}, false
	}
	return s.items[idx], true
}

// ListPermissions returns the permission registry.
func (s *PermissionStore) ListPermissions() []domain.Permission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Permission, len(s.items))
	copy(out, s.items)
	return out
}

// CreateTemplate adds a role template.
func (s *PermissionStore) CreateTemplate(ctx context.Context, actor string, input RoleTemplateInput) (*domain.RoleTemplate, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("template name is required", nil)
	}

	s.mu.Lock()
	template := domain.RoleTemplate{
		ID:          nextID(templateIDs(s.templates)),
		Name:        strings.TrimSpace(input.Name),
		Role:        input.Role,
		Permissions: append([]string{}, input.Permissions...),
		IsDefault:   input.IsDefault,
	}
	s.templates = append(s.templates, template)
	s.mu.Unlock()

	s.publish(ctx, actor, "create_template", template.Name)
	return &template, nil
}

// DeleteTemplate removes a role template. Default templates cannot be
// deleted. A missing id is a silent no-op with a nil error.
func (s *PermissionStore) DeleteTemplate(ctx context.Context, actor string, id int) (bool, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.templates {
		if s.templates[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	if s.templates[idx].IsDefault {
		s.mu.Unlock()
		return false, apperrors.NewConflict("default role templates cannot be deleted", nil)
	}
	name := s.templates[idx].Name
	s.templates = append(s.templates[:idx], s.templates[idx+1:]...)
	s.mu.Unlock()

	s.publish(ctx, actor, "delete_template", name)
	return true, nil
}

// TemplateForRole returns the first template registered for a role.
func (s *PermissionStore) TemplateForRole(role domain.Role) (domain.RoleTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.templates {
		if t.Role == role {
			out := t
			out.Permissions = append([]string{}, t.Permissions...)
			return out, true
		}
	}
	return domain.RoleTemplate{}, false
}

// ListTemplates returns the role templates.
func (s *PermissionStore) ListTemplates() []domain.RoleTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RoleTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		copied := t
		copied.Permissions = append([]string{}, t.Permissions...)
		out = append(out, copied)
	}
	return out
}

// RecordChange appends a permission-change audit entry, evicting the oldest
// entries beyond the cap.
func (s *PermissionStore) RecordChange(ctx context.Context, input ChangeInput) domain.PermissionChange {
	s.mu.Lock()
	change := domain.PermissionChange{
		ID:            s.nextChange,
		UserID:        input.UserID,
		UserName:      input.UserName,
		Action:        input.Action,
		PermissionID:  input.PermissionID,
		PreviousValue: input.PreviousValue,
		NewValue:      input.NewValue,
		ChangedBy:     input.ChangedBy,
		Reason:        input.Reason,
		CreatedAt:     time.Now(),
	}
	s.nextChange++
	s.changes = append(s.changes, change)
	if len(s.changes) > maxPermissionChanges {
		s.changes = s.changes[len(s.changes)-maxPermissionChanges:]
	}
	s.mu.Unlock()

	s.publish(ctx, input.ChangedBy, string(input.Action), input.PermissionID)
	return change
}

// History returns the retained change history, oldest first.
func (s *PermissionStore) History() []domain.PermissionChange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PermissionChange, len(s.changes))
	copy(out, s.changes)
	return out
}

// Snapshot returns copies of permissions, templates, and change history.
func (s *PermissionStore) Snapshot() ([]domain.Permission, []domain.RoleTemplate, []domain.PermissionChange) {
	return s.ListPermissions(), s.ListTemplates(), s.History()
}

// Restore replaces store state from a snapshot.
func (s *PermissionStore) Restore(items []domain.Permission, templates []domain.RoleTemplate, changes []domain.PermissionChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]domain.Permission, len(items))
	copy(s.items, items)
	s.templates = make([]domain.RoleTemplate, len(templates))
	copy(s.templates, templates)
	s.changes = make([]domain.PermissionChange, len(changes))
	copy(s.changes, changes)
	if len(s.changes) > maxPermissionChanges {
		s.changes = s.changes[len(s.changes)-maxPermissionChanges:]
	}
	s.nextChange = 1
	for _, c := range s.changes {
		if c.ID >= s.nextChange {
			s.nextChange = c.ID + 1
		}
	}
}

func (s *PermissionStore) permissionIndexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *PermissionStore) publish(ctx context.Context, actor, action, key string) {
	publishRegistryChange(ctx, s.dispatcher, actor, "permissions", action, key)
}

func isPermissionSlug(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}

func templateIDs(items []domain.RoleTemplate) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
