package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
	RoleGuest  UserRole = "guest"
)

// CanDeleteTask reports whether the role may delete tasks.
func (r UserRole) CanDeleteTask() bool {
	return r == RoleAdmin
}

// CanAssignTask reports whether the role may change task assignments.
func (r UserRole) CanAssignTask() bool {
	return r == RoleAdmin
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
