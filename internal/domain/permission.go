package domain

import "time"

// PermissionCategory groups permissions for display.
type PermissionCategory string

const (
	PermissionCategoryBasic    PermissionCategory = "basic"
	PermissionCategoryAdvanced PermissionCategory = "advanced"
	PermissionCategoryAdmin    PermissionCategory = "admin"
)

// Permission is an access right identified by a lowercase+underscore slug.
// System permissions cannot be renamed, recategorized, or deleted because
// core role templates depend on them.
type Permission struct {
	ID                 string
	Label              string
	Description        string
	Category           PermissionCategory
	IsSystemPermission bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RoleTemplate bundles permissions applied when assigning a role. Default
// templates cannot be deleted.
type RoleTemplate struct {
	ID          int
	Name        string
	Role        Role
	Permissions []string
	IsDefault   bool
}

// PermissionAction identifies how a user's permission set changed.
type PermissionAction string

const (
	PermissionActionGrant    PermissionAction = "grant"
	PermissionActionRevoke   PermissionAction = "revoke"
	PermissionActionInherit  PermissionAction = "inherit"
	PermissionActionOverride PermissionAction = "override"
)

// PermissionChange is an append-only audit record of a permission-set
// mutation. The permission store retains only the most recent 1000 entries.
type PermissionChange struct {
	ID            int
	UserID        int
	UserName      string
	Action        PermissionAction
	PermissionID  string
	PreviousValue bool
	NewValue      bool
	ChangedBy     string
	Reason        string
	CreatedAt     time.Time
}
