package models

import (
	"gorm.io/gorm"
)

// Built-in role names. Additional roles can be created from the admin panel.
const (
	RoleNameStudent = "student"
	RoleNameAdmin   = "admin"
)

// Role groups a set of permissions under a name referenced by User.Role.
type Role struct {
	gorm.Model
	Name        string       `gorm:"unique;not null"`
	Permissions []Permission `gorm:"many2many:role_permissions;"`
}

// Permission is a single named capability, e.g. "tournaments:write".
type Permission struct {
	gorm.Model
	Name string `gorm:"unique;not null"`
}
