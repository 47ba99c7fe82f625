package dto

import (
	"time"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

// CategoryRequest is the payload for category create/update.
type CategoryRequest struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Active      bool   `json:"active"`
	Description string `json:"description"`
}

// CategoryResponse is one category.
type CategoryResponse struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Active      bool   `json:"active"`
	Description string `json:"description"`
}

// PriorityRequest is the payload for priority create/update.
type PriorityRequest struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Level  int    `json:"level"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

// PriorityResponse is one priority.
type PriorityResponse struct {
	ID     int    `json:"id"`
	Key    string `json:"key"`
	Label  string `json:"label"`
	Level  int    `json:"level"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

// UserRequest is the payload for user create/update.
type UserRequest struct {
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Role         domain.Role       `json:"role"`
	Status       domain.UserStatus `json:"status"`
	Permissions  []string          `json:"permissions"`
	ParentUserID *int              `json:"parent_user_id"`
}

// UserResponse is one user.
type UserResponse struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Role         domain.Role       `json:"role"`
	Status       domain.UserStatus `json:"status"`
	Initials     string            `json:"initials"`
	Permissions  []string          `json:"permissions"`
	ParentUserID *int              `json:"parent_user_id,omitempty"`
	SubUsers     []int             `json:"sub_users"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// PermissionRequest is the payload for permission create/update.
type PermissionRequest struct {
	ID          string                    `json:"id"`
	Label       string                    `json:"label"`
	Description string                    `json:"description"`
	Category    domain.PermissionCategory `json:"category"`
}

// PermissionResponse is one permission.
type PermissionResponse struct {
	ID                 string                    `json:"id"`
	Label              string                    `json:"label"`
	Description        string                    `json:"description"`
	Category           domain.PermissionCategory `json:"category"`
	IsSystemPermission bool                      `json:"is_system_permission"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// RoleTemplateRequest is the payload for role template creation.
type RoleTemplateRequest struct {
	Name        string      `json:"name"`
	Role        domain.Role `json:"role"`
	Permissions []string    `json:"permissions"`
	IsDefault   bool        `json:"is_default"`
}

// RoleTemplateResponse is one role template.
type RoleTemplateResponse struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Role        domain.Role `json:"role"`
	Permissions []string    `json:"permissions"`
	IsDefault   bool        `json:"is_default"`
}

// PermissionChangeRequest records a permission grant/revoke for a user.
type PermissionChangeRequest struct {
	UserID       int                     `json:"user_id"`
	Action       domain.PermissionAction `json:"action"`
	PermissionID string                  `json:"permission_id"`
	Reason       string                  `json:"reason"`
}

// PermissionChangeResponse is one audit history entry.
type PermissionChangeResponse struct {
	ID            int                     `json:"id"`
	UserID        int                     `json:"user_id"`
	UserName      string                  `json:"user_name"`
	Action        domain.PermissionAction `json:"action"`
	PermissionID  string                  `json:"permission_id"`
	PreviousValue bool                    `json:"previous_value"`
	NewValue      bool                    `json:"new_value"`
	ChangedBy     string                  `json:"changed_by"`
	Reason        string                  `json:"reason,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}
