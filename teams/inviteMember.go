package teams

import (
	"errors"
	"fmt"
	"net/http"

	"unisport/internal/ws"
	"unisport/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InviteMemberRequest is the body of POST /team/:teamId/members.
type InviteMemberRequest struct {
	LeaderStudentID string `json:"leaderStudentId"`
	MemberStudentID string `json:"memberStudentId"`
}

// InviteMember adds a PENDING member to the team and notifies them.
// The candidate must exist in the system, fit the game's gender category and
// hold no CONFIRMED membership on another team for the same game.
func InviteMember(c *gin.Context, db *gorm.DB, hub *ws.Hub, logger *zap.Logger) {
	var request InviteMemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}
	if !requireSelf(c, request.LeaderStudentID) {
		return
	}

	team, err := fetchTeam(db, c.Param("teamId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Team not found"})
		return
	}
	if team.Status == models.TeamConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Team is already confirmed"})
		return
	}
	if !requireLeader(c, team) {
		return
	}

	var candidate models.User
	err = db.Where("student_id = ?", request.MemberStudentID).First(&candidate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No invitation is created for unknown students.
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Student must register on the portal first"})
		return
	} else if err != nil {
		logger.Error("Failed to fetch candidate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user data"})
		return
	}

	if confirmedElsewhere(db, team.GameID, candidate.ID, team.ID) {
		c.JSON(http.StatusConflict, gin.H{
			"success":       false,
			"alreadyOnTeam": true,
			"message":       "Student is already confirmed on another team for this game",
		})
		return
	}

	var existing models.TeamMember
	rejoining := false
	err = db.Where("team_id = ? AND user_id = ?", team.ID, candidate.ID).First(&existing).Error
	if err == nil {
		if existing.Status != models.MemberRejected {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Student is already a member of this team"})
			return
		}
		// A rejected member may be invited again.
		rejoining = true
	}

	var activeMembers int64
	db.Model(&models.TeamMember{}).
		Where("team_id = ? AND status <> ?", team.ID, models.MemberRejected).
		Count(&activeMembers)
	if int(activeMembers) >= team.Game.TeamSize {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Team is full"})
		return
	}

	var leader models.User
	if err := db.First(&leader, team.LeaderID).Error; err != nil {
		logger.Error("Failed to fetch team leader", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user data"})
		return
	}
	if err := checkGender(team.Game, leader, candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var notification models.Notification
	err = db.Transaction(func(tx *gorm.DB) error {
		if rejoining {
			if err := tx.Model(&existing).Update("status", models.MemberPending).Error; err != nil {
				return err
			}
		} else {
			member := models.TeamMember{
				TeamID: team.ID,
				UserID: candidate.ID,
				Role:   models.RoleMember,
				Status: models.MemberPending,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}

		teamID := team.ID
		notification = models.Notification{
			UserID: candidate.ID,
			Type:   models.NotificationTeamRequest,
			TeamID: &teamID,
			Status: models.NotificationUnread,
			Message: fmt.Sprintf("You have been invited to join team %q for %s",
				team.Name, team.Game.Name),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		logger.Error("Failed to create invitation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create invitation"})
		return
	}

	if hub != nil {
		hub.Push(candidate.ID, gin.H{
			"notificationId": notification.ID,
			"type":           notification.Type,
			"teamId":         team.ID,
			"message":        notification.Message,
		})
	}

	logger.Info("Member invited",
		zap.Uint("teamID", team.ID),
		zap.String("member", request.MemberStudentID),
	)
	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"message":        "Invitation sent",
		"notificationId": notification.ID,
	})
}
