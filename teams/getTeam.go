package teams

import (
	"net/http"

	"unisport/middlewares"
	"unisport/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GetTeam returns a team with its roster. Visible to any authenticated
// student so an invitee can inspect the team before answering.
func GetTeam(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	team, err := fetchTeam(db, c.Param("teamId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Team not found"})
		return
	}

	var members []models.TeamMember
	if err := db.Preload("User").Where("team_id = ?", team.ID).Find(&members).Error; err != nil {
		logger.Error("Failed to fetch team members", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch team members"})
		return
	}

	var roster []gin.H
	for _, m := range members {
		roster = append(roster, gin.H{
			"memberId":  m.ID,
			"studentId": m.User.StudentID,
			"fullName":  m.User.FullName,
			"role":      m.Role,
			"status":    m.Status,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"teamId":   team.ID,
		"teamName": team.Name,
		"status":   team.Status,
		"gameId":   team.GameID,
		"gameName": team.Game.Name,
		"category": team.Game.Category,
		"teamSize": team.Game.TeamSize,
		"members":  roster,
	})
}

// MyTeams lists every team the authenticated student belongs to, including
// pending invitations.
func MyTeams(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var memberships []models.TeamMember
	err := db.Preload("Team").Preload("Team.Game").
		Where("user_id = ?", middlewares.UserID(c)).
		Find(&memberships).Error
	if err != nil {
		logger.Error("Failed to fetch memberships", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch teams"})
		return
	}

	var out []gin.H
	for _, m := range memberships {
		out = append(out, gin.H{
			"teamId":           m.TeamID,
			"teamName":         m.Team.Name,
			"teamStatus":       m.Team.Status,
			"gameId":           m.Team.GameID,
			"gameName":         m.Team.Game.Name,
			"role":             m.Role,
			"membershipStatus": m.Status,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "teams": out})
}
