package handlers

import (
	"net/http"

	"unisport/middlewares"
	"unisport/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListNotifications returns the authenticated student's non-archived
// notifications, newest first.
func ListNotifications(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var notifications []models.Notification
	err := db.Where("user_id = ? AND status <> ?", middlewares.UserID(c), models.NotificationArchived).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		logger.Error("Failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list notifications"})
		return
	}

	var out []gin.H
	for _, n := range notifications {
		entry := gin.H{
			"notificationId": n.ID,
			"type":           n.Type,
			"status":         n.Status,
			"message":        n.Message,
			"createdAt":      n.CreatedAt,
		}
		if n.TeamID != nil {
			entry["teamId"] = *n.TeamID
		}
		if n.ActionTaken != nil {
			entry["actionTaken"] = *n.ActionTaken
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": out})
}

// MarkNotificationRead marks one notification READ without recording an
// action, so a TEAM_REQUEST stays answerable after being opened.
func MarkNotificationRead(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var notification models.Notification
	err := db.Where("id = ? AND user_id = ?", c.Param("notificationId"), middlewares.UserID(c)).
		First(&notification).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
		return
	}

	if notification.Status == models.NotificationUnread {
		if err := db.Model(&notification).Update("status", models.NotificationRead).Error; err != nil {
			logger.Error("Failed to mark notification read", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update notification"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
