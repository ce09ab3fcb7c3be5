package models

import (
	"gorm.io/gorm"
)

// Gender values accepted on profiles.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// MaxNameEdits is the lifetime cap on full-name changes per user.
const MaxNameEdits = 3

// User model definition. Rows are created on first login and never deleted.
type User struct {
	gorm.Model
	StudentID       string `gorm:"unique;not null"` // formatted ID derived from the institutional email
	Email           string `gorm:"unique;not null"`
	PasswordHash    string `gorm:"not null"`
	FullName        string
	Gender          string // "male" or "female", empty until the profile is filled in
	NameEditCount   int    `gorm:"not null;default:0"`
	ProfileComplete bool   `gorm:"not null;default:false"`
	Role            string `gorm:"not null;default:'student'"` // references Role.Name
}
