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

// MemberActionRequest is the body of the remove and replace endpoints.
type MemberActionRequest struct {
	StudentID          string `json:"studentId"`
	NewMemberStudentID string `json:"newMemberStudentId"` // replace only
}

// guardMemberMutation runs the shared remove/replace preconditions: only the
// leader may act, only before payment and before the deadline, and the
// leader's own row is untouchable. Returns the target membership row.
func guardMemberMutation(c *gin.Context, db *gorm.DB, team models.Team) (models.TeamMember, bool) {
	var member models.TeamMember

	if !requireLeader(c, team) {
		return member, false
	}
	if teamPaid(db, team.ID) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Team registration fee is already paid"})
		return member, false
	}
	if deadlinePassed(team) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Registration deadline has passed"})
		return member, false
	}

	err := db.Where("id = ? AND team_id = ?", c.Param("memberId"), team.ID).First(&member).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Member not found on this team"})
		return member, false
	}
	if member.Role == models.RoleLeader {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "The team leader cannot be removed"})
		return member, false
	}
	return member, true
}

// RemoveMember deletes a member from the team and purges their invitation
// notifications.
func RemoveMember(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request MemberActionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}
	if !requireSelf(c, request.StudentID) {
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

	member, ok := guardMemberMutation(c, db, team)
	if !ok {
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&member).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND team_id = ? AND type = ?",
			member.UserID, team.ID, models.NotificationTeamRequest).
			Delete(&models.Notification{}).Error
	})
	if err != nil {
		logger.Error("Failed to remove member", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove member"})
		return
	}

	logger.Info("Member removed", zap.Uint("teamID", team.ID), zap.Uint("memberID", member.ID))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Member removed"})
}

// ReplaceMember swaps one member for a new candidate: the removal guards
// apply, then the candidate passes the same validation an invite would run.
// The old member and their notifications go, the new member starts PENDING
// with a fresh invitation.
func ReplaceMember(c *gin.Context, db *gorm.DB, hub *ws.Hub, logger *zap.Logger) {
	var request MemberActionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}
	if !requireSelf(c, request.StudentID) {
		return
	}
	if request.NewMemberStudentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "newMemberStudentId is required"})
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

	member, ok := guardMemberMutation(c, db, team)
	if !ok {
		return
	}

	var candidate models.User
	err = db.Where("student_id = ?", request.NewMemberStudentID).First(&candidate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Student must register on the portal first"})
		return
	} else if err != nil {
		logger.Error("Failed to fetch candidate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user data"})
		return
	}

	if candidate.ID == team.LeaderID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Candidate is already the team leader"})
		return
	}
	var onTeam int64
	db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND id <> ?", team.ID, candidate.ID, member.ID).
		Count(&onTeam)
	if onTeam > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Student is already a member of this team"})
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
		if err := tx.Delete(&member).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND team_id = ? AND type = ?",
			member.UserID, team.ID, models.NotificationTeamRequest).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		replacement := models.TeamMember{
			TeamID: team.ID,
			UserID: candidate.ID,
			Role:   models.RoleMember,
			Status: models.MemberPending,
		}
		if err := tx.Create(&replacement).Error; err != nil {
			return err
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
		logger.Error("Failed to replace member", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to replace member"})
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

	logger.Info("Member replaced",
		zap.Uint("teamID", team.ID),
		zap.Uint("removedMemberID", member.ID),
		zap.String("newMember", request.NewMemberStudentID),
	)
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Member replaced, invitation sent",
		"notificationId": notification.ID,
	})
}
