package teams

import (
	"fmt"
	"net/http"
	"time"

	"unisport/middlewares"
	"unisport/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// fetchTeam loads a team with its game and the tournament deadline.
func fetchTeam(db *gorm.DB, teamID string) (models.Team, error) {
	var team models.Team
	err := db.Preload("Game").Preload("Game.Tournament").First(&team, teamID).Error
	return team, err
}

// requireSelf rejects requests whose body-supplied student ID does not match
// the verified token subject. The body field stays part of the wire contract;
// it just can no longer assert someone else's identity.
func requireSelf(c *gin.Context, studentID string) bool {
	if studentID != middlewares.StudentID(c) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Student ID does not match the authenticated user"})
		return false
	}
	return true
}

// requireLeader rejects requests from anyone but the team's leader.
func requireLeader(c *gin.Context, team models.Team) bool {
	if team.LeaderID != middlewares.UserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only the team leader may perform this action"})
		return false
	}
	return true
}

// deadlinePassed reports whether the tournament registration cutoff is over.
func deadlinePassed(team models.Team) bool {
	return time.Now().After(team.Game.Tournament.RegistrationDeadline)
}

// checkGender applies the game's category rule to a candidate:
// MALE and FEMALE teams take only that gender, MIX requires the candidate's
// gender to differ from the leader's.
func checkGender(game models.Game, leader, candidate models.User) error {
	if candidate.Gender == "" {
		return fmt.Errorf("candidate must complete their profile before joining a team")
	}
	switch game.Category {
	case models.CategoryMale:
		if candidate.Gender != models.GenderMale {
			return fmt.Errorf("gender_mismatch: this game is restricted to male players")
		}
	case models.CategoryFemale:
		if candidate.Gender != models.GenderFemale {
			return fmt.Errorf("gender_mismatch: this game is restricted to female players")
		}
	case models.CategoryMix:
		if candidate.Gender == leader.Gender {
			return fmt.Errorf("gender_mismatch: a Mix team requires an opposite-gender member")
		}
	}
	return nil
}

// confirmedElsewhere reports whether the user already holds a CONFIRMED
// membership on another team for the same game.
func confirmedElsewhere(db *gorm.DB, gameID, userID, excludeTeamID uint) bool {
	var count int64
	db.Model(&models.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("teams.game_id = ? AND team_members.user_id = ? AND team_members.status = ? AND team_members.team_id <> ?",
			gameID, userID, models.MemberConfirmed, excludeTeamID).
		Count(&count)
	return count > 0
}

// teamPaid reports whether the team's registration fee has been paid.
func teamPaid(db *gorm.DB, teamID uint) bool {
	var registration models.GameRegistration
	err := db.Where("team_id = ? AND payment_status = ?", teamID, models.PaymentPaid).
		First(&registration).Error
	return err == nil
}
