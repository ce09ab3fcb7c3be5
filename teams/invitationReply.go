package teams

import (
	"net/http"

	"unisport/middlewares"
	"unisport/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvitationReplyRequest is the body of the accept and reject endpoints.
type InvitationReplyRequest struct {
	StudentID      string `json:"studentId"`
	NotificationID uint   `json:"notificationId"`
}

// loadInvitation runs the shared accept/reject guards and returns the
// notification and the membership row it refers to. A notification counts as
// processed only when it is READ and carries a recorded action, so one that
// was merely opened can still be answered.
func loadInvitation(c *gin.Context, db *gorm.DB, request InvitationReplyRequest) (models.Notification, models.TeamMember, bool) {
	var notification models.Notification
	var member models.TeamMember

	err := db.Where("id = ? AND user_id = ?", request.NotificationID, middlewares.UserID(c)).
		First(&notification).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
		return notification, member, false
	}
	if notification.Type != models.NotificationTeamRequest {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Notification is not a team invitation"})
		return notification, member, false
	}
	if notification.Status == models.NotificationRead && notification.ActionTaken != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Invitation has already been processed"})
		return notification, member, false
	}
	if notification.TeamID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Notification is not linked to a team"})
		return notification, member, false
	}

	err = db.Where("team_id = ? AND user_id = ?", *notification.TeamID, notification.UserID).
		First(&member).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Invitation is no longer valid"})
		return notification, member, false
	}
	return notification, member, true
}

// AcceptInvitation confirms the membership the notification refers to, then
// retracts every other PENDING membership the student holds for the same
// game. The retraction is best-effort: failures are logged, the accept has
// already committed.
func AcceptInvitation(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request InvitationReplyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}
	if !requireSelf(c, request.StudentID) {
		return
	}

	notification, member, ok := loadInvitation(c, db, request)
	if !ok {
		return
	}

	var team models.Team
	if err := db.First(&team, member.TeamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Team no longer exists"})
		return
	}

	action := models.ActionAccepted
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&member).Update("status", models.MemberConfirmed).Error; err != nil {
			return err
		}
		return tx.Model(&notification).Updates(map[string]interface{}{
			"status":       models.NotificationRead,
			"action_taken": action,
		}).Error
	})
	if err != nil {
		logger.Error("Failed to accept invitation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to accept invitation"})
		return
	}

	retractCompeting(db, logger, team, member.UserID)

	logger.Info("Invitation accepted",
		zap.Uint("teamID", team.ID),
		zap.String("studentID", request.StudentID),
	)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Invitation accepted",
		"teamId":  team.ID,
	})
}

// retractCompeting deletes the user's PENDING memberships on other teams for
// the same game and archives their invitation notifications. Errors are
// logged and never surfaced; the confirmed membership stands either way.
func retractCompeting(db *gorm.DB, logger *zap.Logger, team models.Team, userID uint) {
	var competing []models.TeamMember
	err := db.Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("teams.game_id = ? AND team_members.user_id = ? AND team_members.status = ? AND team_members.team_id <> ?",
			team.GameID, userID, models.MemberPending, team.ID).
		Find(&competing).Error
	if err != nil {
		logger.Error("Failed to look up competing invitations", zap.Error(err))
		return
	}

	for _, other := range competing {
		if err := db.Delete(&other).Error; err != nil {
			logger.Error("Failed to retract competing membership",
				zap.Uint("teamID", other.TeamID), zap.Error(err))
			continue
		}
		err := db.Model(&models.Notification{}).
			Where("user_id = ? AND team_id = ? AND type = ?",
				userID, other.TeamID, models.NotificationTeamRequest).
			Update("status", models.NotificationArchived).Error
		if err != nil {
			logger.Error("Failed to archive competing notification",
				zap.Uint("teamID", other.TeamID), zap.Error(err))
		}
	}
}

// RejectInvitation marks the membership REJECTED and records the decline.
// Only the one membership is touched.
func RejectInvitation(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request InvitationReplyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}
	if !requireSelf(c, request.StudentID) {
		return
	}

	notification, member, ok := loadInvitation(c, db, request)
	if !ok {
		return
	}

	action := models.ActionDeclined
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&member).Update("status", models.MemberRejected).Error; err != nil {
			return err
		}
		return tx.Model(&notification).Updates(map[string]interface{}{
			"status":       models.NotificationRead,
			"action_taken": action,
		}).Error
	})
	if err != nil {
		logger.Error("Failed to reject invitation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to reject invitation"})
		return
	}

	logger.Info("Invitation rejected",
		zap.Uint("teamID", member.TeamID),
		zap.String("studentID", request.StudentID),
	)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invitation rejected"})
}
