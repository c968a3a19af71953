package model

import (
	"time"

	"github.com/google/uuid"
)

// Utilisateur mirrors the identity provided by the auth layer. First-seen
// identities are lazily inserted with the default minimal role so that role
// lookups never hit a missing FK.
type Utilisateur struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash *string   `gorm:"column:password_hash"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Roles []Role `gorm:"many2many:roles_utilisateurs;"`
}

func (Utilisateur) TableName() string { return "users" }

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Permissions []Permission `gorm:"many2many:permissions_roles;"`
}

func (Role) TableName() string { return "roles" }

// Permission is an action string like "po:cancel". The sentinel "*" grants
// every action.
type Permission struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Action      string    `gorm:"uniqueIndex;not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Permission) TableName() string { return "permissions" }

// PermissionToutes is the wildcard action.
const PermissionToutes = "*"
