package models

import (
	"time"

	"gorm.io/gorm"
)

// Game categories. MIX requires opposite-gender pairing against the leader.
const (
	CategoryMale   = "MALE"
	CategoryFemale = "FEMALE"
	CategoryMix    = "MIX"
)

// Tournament model definition. RegistrationDeadline gates registration and
// all team mutation for every game under the tournament.
type Tournament struct {
	gorm.Model
	Name                 string `gorm:"not null"`
	Season               string
	RegistrationDeadline time.Time `gorm:"not null"`
	Games                []Game    `gorm:"foreignKey:TournamentID"`
}

// Game model definition. TeamSize 1 means an individual game.
type Game struct {
	gorm.Model
	TournamentID uint       `gorm:"index;not null"`
	Name         string     `gorm:"not null"`
	Category     string     `gorm:"not null"` // MALE, FEMALE or MIX
	TeamSize     int        `gorm:"not null;default:1"`
	Fee          int        `gorm:"not null;default:0"` // registration fee in cents
	Tournament   Tournament `gorm:"foreignKey:TournamentID"`
}

// IsTeamGame reports whether registrations for this game go through teams.
func (g Game) IsTeamGame() bool {
	return g.TeamSize > 1
}
