package persistence

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-flow/internal/domain"
	"github.com/spec-kit/ticket-flow/internal/events"
	"github.com/spec-kit/ticket-flow/internal/search"
	"github.com/spec-kit/ticket-flow/internal/store"
)

// Snapshot keys, one blob per aggregate.
const (
	keyTickets       = "tickets"
	keyCategories    = "categories"
	keyPriorities    = "priorities"
	keyUsers         = "users"
	keyPermissions   = "permissions"
	keySearchHistory = "search_history"
)

// Persister mirrors the stores into the snapshot store and restores them at
// startup. Mirroring happens synchronously after every published event, the
// way the original persisted whole contexts to local storage on change.
type Persister struct {
	snapshots  *SnapshotStore
	registries store.Registries
	history    *search.History
	logger     *zap.Logger
}

// NewPersister wires the persister over the given stores.
func NewPersister(snapshots *SnapshotStore, registries store.Registries, history *search.History, logger *zap.Logger) *Persister {
	return &Persister{
		snapshots:  snapshots,
		registries: registries,
		history:    history,
		logger:     logger,
	}
}

// Watch subscribes the persister to every store event.
func (p *Persister) Watch(dispatcher events.Dispatcher) {
	dispatcher.SubscribeAll(func(ctx context.Context, _ events.Event) error {
		p.SaveAll(ctx)
		return nil
	})
}

// SaveAll mirrors every aggregate, best-effort.
func (p *Persister) SaveAll(ctx context.Context) {
	tickets, logs := p.registries.Tickets.Snapshot()
	p.save(ctx, keyTickets, ticketsSnap{
		Tickets: ticketsToSnap(tickets),
		Logs:    logsToSnap(logs),
	})
	p.save(ctx, keyCategories, p.registries.Categories.Snapshot())
	p.save(ctx, keyPriorities, p.registries.Priorities.Snapshot())
	p.save(ctx, keyUsers, usersToSnap(p.registries.Users.Snapshot()))

	perms, templates, changes := p.registries.Permissions.Snapshot()
	p.save(ctx, keyPermissions, permissionsSnap{
		Permissions: permsToSnap(perms),
		Templates:   templates,
		Changes:     changesToSnap(changes),
	})

	if p.history != nil {
		p.save(ctx, keySearchHistory, p.history.Snapshot())
	}
}

// RestoreAll loads every aggregate that has a snapshot; missing blobs leave
// the corresponding store empty.
func (p *Persister) RestoreAll(ctx context.Context) {
	var tickets ticketsSnap
	if p.load(ctx, keyTickets, &tickets) {
		p.registries.Tickets.Restore(ticketsFromSnap(tickets.Tickets), logsFromSnap(tickets.Logs))
	}

	var categories []domain.Category
	if p.load(ctx, keyCategories, &categories) {
		p.registries.Categories.Restore(categories)
	}

	var priorities []domain.Priority
	if p.load(ctx, keyPriorities, &priorities) {
		p.registries.Priorities.Restore(priorities)
	}

	var users []userSnap
	if p.load(ctx, keyUsers, &users) {
		p.registries.Users.Restore(usersFromSnap(users))
	}

	var perms permissionsSnap
	if p.load(ctx, keyPermissions, &perms) {
		p.registries.Permissions.Restore(permsFromSnap(perms.Permissions), perms.Templates, changesFromSnap(perms.Changes))
	}

	if p.history != nil {
		var history search.HistoryState
		if p.load(ctx, keySearchHistory, &history) {
			p.history.Restore(history)
		}
	}
}

func (p *Persister) save(ctx context.Context, key string, v any) {
	if err := p.snapshots.Save(ctx, key, v); err != nil {
		p.logger.Warn("snapshot save failed", zap.String("key", key), zap.Error(err))
	}
}

func (p *Persister) load(ctx context.Context, key string, v any) bool {
	found, err := p.snapshots.Load(ctx, key, v)
	if err != nil {
		p.logger.Warn("snapshot load failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

// Snapshot DTOs. Timestamps use the tagged Date codec so blobs stay
// compatible with what the original front-end wrote.

type ticketsSnap struct {
	Tickets []ticketSnap `json:"tickets"`
	Logs    []logSnap    `json:"logs"`
}

type ticketSnap struct {
	ID          int           `json:"id"`
	Key         string        `json:"key"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    string        `json:"priority"`
	Category    string        `json:"category"`
	Client      string        `json:"client"`
	Status      domain.Status `json:"status"`
	Stage       domain.Stage  `json:"stage"`
	Assignee    *string       `json:"assignee"`
	Tags        []string      `json:"tags"`
	Comments    []commentSnap `json:"comments"`
	CreatedAt   Date          `json:"createdAt"`
	UpdatedAt   Date          `json:"updatedAt"`
}

type commentSnap struct {
	ID        int    `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt Date   `json:"createdAt"`
}

type logSnap struct {
	ID         int                 `json:"id"`
	UserName   string              `json:"userName"`
	Type       domain.ActivityType `json:"type"`
	EntityType string              `json:"entityType"`
	EntityID   string              `json:"entityId"`
	Detail     string              `json:"detail"`
	CreatedAt  Date                `json:"createdAt"`
}

type userSnap struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Role         domain.Role       `json:"role"`
	Status       domain.UserStatus `json:"status"`
	Initials     string            `json:"initials"`
	Permissions  []string          `json:"permissions"`
	ParentUserID *int              `json:"parentUserId"`
	SubUsers     []int             `json:"subUsers"`
	CreatedAt    Date              `json:"createdAt"`
	UpdatedAt    Date              `json:"updatedAt"`
}

type permissionSnap struct {
	ID                 string                    `json:"id"`
	Label              string                    `json:"label"`
	Description        string                    `json:"description"`
	Category           domain.PermissionCategory `json:"category"`
	IsSystemPermission bool                      `json:"isSystemPermission"`
	CreatedAt          Date                      `json:"createdAt"`
	UpdatedAt          Date                      `json:"updatedAt"`
}

type changeSnap struct {
	ID            int                     `json:"id"`
	UserID        int                     `json:"userId"`
	UserName      string                  `json:"userName"`
	Action        domain.PermissionAction `json:"action"`
	PermissionID  string                  `json:"permissionId"`
	PreviousValue bool                    `json:"previousValue"`
	NewValue      bool                    `json:"newValue"`
	ChangedBy     string                  `json:"changedBy"`
	Reason        string                  `json:"reason"`
	CreatedAt     Date                    `json:"createdAt"`
}

type permissionsSnap struct {
	Permissions []permissionSnap      `json:"permissions"`
	Templates   []domain.RoleTemplate `json:"templates"`
	Changes     []changeSnap          `json:"changes"`
}

func ticketsToSnap(tickets []domain.Ticket) []ticketSnap {
	out := make([]ticketSnap, 0, len(tickets))
	for _, t := range tickets {
		comments := make([]commentSnap, 0, len(t.Comments))
		for _, c := range t.Comments {
			comments = append(comments, commentSnap{ID: c.ID, Author: c.Author, Body: c.Body, CreatedAt: NewDate(c.CreatedAt)})
		}
		out = append(out, ticketSnap{
			ID:          t.ID,
			Key:         t.Key,
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			Category:    t.Category,
			Client:      t.Client,
			Status:      t.Status,
			Stage:       t.Stage,
			Assignee:    t.Assignee,
			Tags:        t.Tags,
			Comments:    comments,
			CreatedAt:   NewDate(t.CreatedAt),
			UpdatedAt:   NewDate(t.UpdatedAt),
		})
	}
	return out
}

func ticketsFromSnap(snaps []ticketSnap) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(snaps))
	for _, s := range snaps {
		comments := make([]domain.Comment, 0, len(s.Comments))
		for _, c := range s.Comments {
			comments = append(comments, domain.Comment{ID: c.ID, Author: c.Author, Body: c.Body, CreatedAt: c.CreatedAt.Time})
		}
		tags := s.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, domain.Ticket{
			ID:          s.ID,
			Key:         s.Key,
			Title:       s.Title,
			Description: s.Description,
			Priority:    s.Priority,
			Category:    s.Category,
			Client:      s.Client,
			Status:      s.Status,
			Stage:       s.Stage,
			Assignee:    s.Assignee,
			Tags:        tags,
			Comments:    comments,
			CreatedAt:   s.CreatedAt.Time,
			UpdatedAt:   s.UpdatedAt.Time,
		})
	}
	return out
}

func logsToSnap(logs []domain.LogEntry) []logSnap {
	out := make([]logSnap, 0, len(logs))
	for _, l := range logs {
		out = append(out, logSnap{
			ID:         l.ID,
			UserName:   l.UserName,
			Type:       l.Type,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Detail:     l.Detail,
			CreatedAt:  NewDate(l.CreatedAt),
		})
	}
	return out
}

func logsFromSnap(snaps []logSnap) []domain.LogEntry {
	out := make([]domain.LogEntry, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, domain.LogEntry{
			ID:         s.ID,
			UserName:   s.UserName,
			Type:       s.Type,
			EntityType: s.EntityType,
			EntityID:   s.EntityID,
			Detail:     s.Detail,
			CreatedAt:  s.CreatedAt.Time,
		})
	}
	return out
}

func usersToSnap(users []domain.User) []userSnap {
	out := make([]userSnap, 0, len(users))
	for _, u := range users {
		out = append(out, userSnap{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Role:         u.Role,
			Status:       u.Status,
			Initials:     u.Initials,
			Permissions:  u.Permissions,
			ParentUserID: u.ParentUserID,
			SubUsers:     u.SubUsers,
			CreatedAt:    NewDate(u.CreatedAt),
			UpdatedAt:    NewDate(u.UpdatedAt),
		})
	}
	return out
}

func usersFromSnap(snaps []userSnap) []domain.User {
	out := make([]domain.User, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, domain.User{
			ID:           s.ID,
			Name:         s.Name,
			Email:        s.Email,
			Role:         s.Role,
			Status:       s.Status,
			Initials:     s.Initials,
			Permissions:  s.Permissions,
			ParentUserID: s.ParentUserID,
			SubUsers:     s.SubUsers,
			CreatedAt:    s.CreatedAt.Time,
			UpdatedAt:    s.UpdatedAt.Time,
		})
	}
	return out
}

func permsToSnap(perms []domain.Permission) []permissionSnap {
	out := make([]permissionSnap, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionSnap{
			ID:                 p.ID,
			Label:              p.Label,
			Description:        p.Description,
			Category:           p.Category,
			IsSystemPermission: p.IsSystemPermission,
			CreatedAt:          NewDate(p.CreatedAt),
			UpdatedAt:          NewDate(p.UpdatedAt),
		})
	}
	return out
}

func permsFromSnap(snaps []permissionSnap) []domain.Permission {
	out := make([]domain.Permission, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, domain.Permission{
			ID:                 s.ID,
			Label:              s.Label,
			Description:        s.Description,
			Category:           s.Category,
			IsSystemPermission: s.IsSystemPermission,
			CreatedAt:          s.CreatedAt.Time,
			UpdatedAt:          s.UpdatedAt.Time,
		})
	}
	return out
}

func changesToSnap(changes []domain.PermissionChange) []changeSnap {
	out := make([]changeSnap, 0, len(changes))
	for _, c := range changes {
		out = append(out, changeSnap{
			ID:            c.ID,
			UserID:        c.UserID,
			UserName:      c.UserName,
			Action:        c.Action,
			PermissionID:  c.PermissionID,
			PreviousValue: c.PreviousValue,
			NewValue:      c.NewValue,
			ChangedBy:     c.ChangedBy,
			Reason:        c.Reason,
			CreatedAt:     NewDate(c.CreatedAt),
		})
	}
	return out
}

func changesFromSnap(snaps []changeSnap) []domain.PermissionChange {
	out := make([]domain.PermissionChange, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, domain.PermissionChange{
			ID:            s.ID,
			UserID:        s.UserID,
			UserName:      s.UserName,
			Action:        s.Action,
			PermissionID:  s.PermissionID,
			PreviousValue: s.PreviousValue,
			NewValue:      s.NewValue,
			ChangedBy:     s.ChangedBy,
			Reason:        s.Reason,
			CreatedAt:     s.CreatedAt.Time,
		})
	}
	return out
}
