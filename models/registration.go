package models

import (
	"gorm.io/gorm"
)

// Payment statuses for a registration. PENDING means the fee sits in the
// cart; UNPAID means it was removed from the cart without payment.
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentUnpaid  = "UNPAID"
)

// GameRegistration links a user (or a team, via TeamID) to a game.
// At most one registration may exist per (user, game).
type GameRegistration struct {
	gorm.Model
	GameID        uint  `gorm:"uniqueIndex:idx_user_game;not null"`
	UserID        uint  `gorm:"uniqueIndex:idx_user_game;not null"`
	TeamID        *uint `gorm:"index"` // set for team registrations
	PaymentStatus string `gorm:"not null;default:'PENDING'"`
	Game          Game  `gorm:"foreignKey:GameID"`
}

// CartItem holds an unpaid registration fee until checkout.
type CartItem struct {
	gorm.Model
	UserID         uint `gorm:"index;not null"`
	RegistrationID uint `gorm:"not null"`
	Amount         int  `gorm:"not null"`
	Registration   GameRegistration `gorm:"foreignKey:RegistrationID"`
}
