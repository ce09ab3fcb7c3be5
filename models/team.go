package models

import (
	"gorm.io/gorm"
)

// Team statuses.
const (
	TeamPending   = "PENDING"
	TeamConfirmed = "CONFIRMED"
)

// TeamMember roles.
const (
	RoleLeader = "LEADER"
	RoleMember = "MEMBER"
)

// TeamMember statuses (invitation lifecycle).
const (
	MemberPending   = "PENDING"
	MemberConfirmed = "CONFIRMED"
	MemberRejected  = "REJECTED"
)

// Team model definition. Created when a user registers for a team game;
// the creator becomes the LEADER member in the same transaction.
type Team struct {
	gorm.Model
	GameID     uint   `gorm:"index;not null"`
	LeaderID   uint   `gorm:"not null"` // User ID of the LEADER member
	Name       string `gorm:"not null"`
	Status     string `gorm:"not null;default:'PENDING'"`
	InviteCode string `gorm:"unique;not null"`
	Game       Game   `gorm:"foreignKey:GameID"`
	Members    []TeamMember `gorm:"foreignKey:TeamID"`
}

// Membership is tracked per team in a separate table so a user can hold
// pending invitations on several teams for the same game at once.
type TeamMember struct {
	gorm.Model
	TeamID uint   `gorm:"index;not null"`
	UserID uint   `gorm:"index;not null"`
	Role   string `gorm:"not null;default:'MEMBER'"` // LEADER or MEMBER
	Status string `gorm:"index;not null;default:'PENDING'"`
	Team   Team   `gorm:"foreignKey:TeamID"`
	User   User   `gorm:"foreignKey:UserID"`
}
