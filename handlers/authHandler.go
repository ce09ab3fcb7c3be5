package handlers

import (
	"errors"
	"net/http"

	"unisport/auth"
	"unisport/middlewares"
	"unisport/models"
	"unisport/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a student by institutional email. The user row is
// created on first login; the password supplied then becomes the account
// password.
func Login(c *gin.Context, db *gorm.DB, cfg models.Config, logger *zap.Logger) {
	var request LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}
	if request.Email == "" || request.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	studentID, err := utils.StudentIDFromEmail(request.Email, cfg.EmailDomain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var user models.User
	err = db.Where("student_id = ?", studentID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First login creates the account.
		hash, hashErr := auth.HashPassword(request.Password)
		if hashErr != nil {
			logger.Error("Failed to hash password", zap.Error(hashErr))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
			return
		}
		user = models.User{
			StudentID:    studentID,
			Email:        request.Email,
			PasswordHash: hash,
			Role:         models.RoleNameStudent,
		}
		for _, admin := range cfg.AdminStudents {
			if admin == studentID {
				user.Role = models.RoleNameAdmin
			}
		}
		if err := db.Create(&user).Error; err != nil {
			logger.Error("Failed to create user on first login", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
			return
		}
		logger.Info("User created on first login", zap.String("studentID", studentID))
	} else if err != nil {
		logger.Error("Failed to fetch user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user data"})
		return
	} else if !auth.CheckPassword(user.PasswordHash, request.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		logger.Error("Token generation error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"token":           token,
		"studentId":       user.StudentID,
		"role":            user.Role,
		"profileComplete": user.ProfileComplete,
	})
}

// Logout revokes the current session token until it would expire. The claims
// were already verified by RequireAuth; no re-parse of the header here.
func Logout(c *gin.Context, rdb *redis.Client, logger *zap.Logger) {
	claims := middlewares.Claims(c)
	if err := auth.RevokeToken(c.Request.Context(), rdb, claims); err != nil {
		logger.Error("Failed to revoke token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to log out"})
		return
	}
	logger.Info("Session revoked", zap.String("studentID", middlewares.StudentID(c)))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
