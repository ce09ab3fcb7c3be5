package teams

import (
	"net/http"

	"unisport/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfirmTeam finalizes the team's registration. Every member row must be
// CONFIRMED and the roster must be complete; afterwards membership can no
// longer be mutated.
func ConfirmTeam(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	team, err := fetchTeam(db, c.Param("teamId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Team not found"})
		return
	}
	if !requireLeader(c, team) {
		return
	}
	if team.Status == models.TeamConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Team is already confirmed"})
		return
	}

	var unconfirmed int64
	db.Model(&models.TeamMember{}).
		Where("team_id = ? AND status <> ?", team.ID, models.MemberConfirmed).
		Count(&unconfirmed)
	if unconfirmed > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All members must confirm before registration can be finalized"})
		return
	}

	var confirmed int64
	db.Model(&models.TeamMember{}).
		Where("team_id = ? AND status = ?", team.ID, models.MemberConfirmed).
		Count(&confirmed)
	if int(confirmed) < team.Game.TeamSize {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Team roster is not complete"})
		return
	}

	if err := db.Model(&team).Update("status", models.TeamConfirmed).Error; err != nil {
		logger.Error("Failed to confirm team", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to confirm team"})
		return
	}

	logger.Info("Team confirmed", zap.Uint("teamID", team.ID))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Team registration confirmed"})
}
