package models

import (
	"gorm.io/gorm"
)

// Notification types.
const (
	NotificationTeamRequest = "TEAM_REQUEST"
	NotificationGeneral     = "GENERAL"
)

// Notification statuses.
const (
	NotificationUnread   = "UNREAD"
	NotificationRead     = "READ"
	NotificationArchived = "ARCHIVED"
)

// Actions recorded on a TEAM_REQUEST notification once the invitee responds.
const (
	ActionAccepted = "ACCEPTED"
	ActionDeclined = "DECLINED"
)

// Notification model definition. TEAM_REQUEST rows carry the inviting team
// in TeamID; ActionTaken stays NULL until the invitee accepts or declines.
type Notification struct {
	gorm.Model
	UserID      uint    `gorm:"index;not null"`
	Type        string  `gorm:"not null"`
	TeamID      *uint   `gorm:"index"`
	Status      string  `gorm:"index;not null;default:'UNREAD'"`
	ActionTaken *string
	Message     string
}
