package handlers

import (
	"net/http"

	"unisport/middlewares"
	"unisport/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GetProfile returns the authenticated student's profile.
func GetProfile(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var user models.User
	if err := db.First(&user, middlewares.UserID(c)).Error; err != nil {
		logger.Error("Failed to fetch user", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"studentId":       user.StudentID,
		"email":           user.Email,
		"fullName":        user.FullName,
		"gender":          user.Gender,
		"nameEditsLeft":   models.MaxNameEdits - user.NameEditCount,
		"profileComplete": user.ProfileComplete,
		"role":            user.Role,
	})
}

// UpdateProfileRequest is the body of PUT /profile.
type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Gender   string `json:"gender"`
}

// UpdateProfile updates name and gender. Name edits are capped over the
// account lifetime; gender is fixed to the two values games validate against.
func UpdateProfile(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}

	var user models.User
	if err := db.First(&user, middlewares.UserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	if request.Gender != "" {
		if request.Gender != models.GenderMale && request.Gender != models.GenderFemale {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Gender must be male or female"})
			return
		}
		user.Gender = request.Gender
	}

	if request.FullName != "" && request.FullName != user.FullName {
		if user.NameEditCount >= models.MaxNameEdits {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name edit limit reached"})
			return
		}
		user.FullName = request.FullName
		user.NameEditCount++
	}

	user.ProfileComplete = user.FullName != "" && user.Gender != ""

	if err := db.Save(&user).Error; err != nil {
		logger.Error("Failed to update profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Profile updated",
		"nameEditsLeft":   models.MaxNameEdits - user.NameEditCount,
		"profileComplete": user.ProfileComplete,
	})
}
