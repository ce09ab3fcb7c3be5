package teams

import (
	"net/http"
	"time"

	"unisport/middlewares"
	"unisport/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateTeamRequest is the body of POST /team.
type CreateTeamRequest struct {
	StudentID string `json:"studentId"`
	GameID    uint   `json:"gameId"`
	TeamName  string `json:"teamName"`
}

// CreateTeam registers the authenticated student as leader of a new team for
// a team game. Team, LEADER membership, registration and cart item are
// written in one transaction so a failed insert leaves nothing behind.
func CreateTeam(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request CreateTeamRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}
	if !requireSelf(c, request.StudentID) {
		return
	}
	if request.TeamName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Team name is required"})
		return
	}

	userID := middlewares.UserID(c)

	var game models.Game
	if err := db.Preload("Tournament").First(&game, request.GameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Game not found"})
		return
	}
	if !game.IsTeamGame() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "This game takes individual registrations only"})
		return
	}
	if time.Now().After(game.Tournament.RegistrationDeadline) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Registration deadline has passed"})
		return
	}

	var registration models.GameRegistration
	if err := db.Where("user_id = ? AND game_id = ?", userID, game.ID).First(&registration).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You are already registered for this game"})
		return
	}

	var memberships int64
	db.Model(&models.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("teams.game_id = ? AND team_members.user_id = ? AND team_members.status <> ?",
			game.ID, userID, models.MemberRejected).
		Count(&memberships)
	if memberships > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You are already on a team for this game"})
		return
	}

	var team models.Team
	err := db.Transaction(func(tx *gorm.DB) error {
		team = models.Team{
			GameID:     game.ID,
			LeaderID:   userID,
			Name:       request.TeamName,
			Status:     models.TeamPending,
			InviteCode: uuid.NewString(),
		}
		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		leader := models.TeamMember{
			TeamID: team.ID,
			UserID: userID,
			Role:   models.RoleLeader,
			Status: models.MemberConfirmed,
		}
		if err := tx.Create(&leader).Error; err != nil {
			return err
		}

		teamID := team.ID
		reg := models.GameRegistration{
			GameID:        game.ID,
			UserID:        userID,
			TeamID:        &teamID,
			PaymentStatus: models.PaymentPending,
		}
		if err := tx.Create(&reg).Error; err != nil {
			return err
		}

		item := models.CartItem{
			UserID:         userID,
			RegistrationID: reg.ID,
			Amount:         game.Fee,
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		logger.Error("Failed to create team", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create team"})
		return
	}

	logger.Info("Team created",
		zap.Uint("teamID", team.ID),
		zap.Uint("gameID", game.ID),
		zap.String("leader", request.StudentID),
	)
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Team created, fee added to cart",
		"teamId":     team.ID,
		"inviteCode": team.InviteCode,
	})
}
