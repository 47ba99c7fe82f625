package domain

import (
	"strings"
	"time"
)

// Role enumerates the access roles a user can hold.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleGestor  Role = "gestor"
	RoleDev     Role = "dev"
	RoleSuporte Role = "suporte"
)

// UserStatus represents lifecycle states for a user account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User is an operator of the system. ParentUserID makes this a sub-user that
// may inherit the parent's permissions; both ParentUserID and SubUsers are
// weak references by id, never ownership.
type User struct {
	ID           int
	Name         string
	Email        string
	Role         Role
	Status       UserStatus
	Initials     string
	Permissions  []string
	ParentUserID *int
	SubUsers     []int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InitialsFor derives display initials from a name: first letter of the
// first and last words, uppercased.
func InitialsFor(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(firstRune(words[0]))
	default:
		return strings.ToUpper(firstRune(words[0]) + firstRune(words[len(words)-1]))
	}
}

func firstRune(word string) string {
	for _, r := range word {
		return string(r)
	}
	return ""
}
