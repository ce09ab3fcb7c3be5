package handlers

import (
	"net/http"
	"time"

	"unisport/middlewares"
	"unisport/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterIndividual registers the authenticated student for an individual
// game and puts the fee in the cart. Team games go through POST /team.
func RegisterIndividual(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	userID := middlewares.UserID(c)

	var game models.Game
	if err := db.Preload("Tournament").First(&game, c.Param("gameId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Game not found"})
		return
	}
	if game.IsTeamGame() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "This game requires a team registration"})
		return
	}
	if time.Now().After(game.Tournament.RegistrationDeadline) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Registration deadline has passed"})
		return
	}

	var existing models.GameRegistration
	if err := db.Where("user_id = ? AND game_id = ?", userID, game.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You are already registered for this game"})
		return
	}

	var registration models.GameRegistration
	err := db.Transaction(func(tx *gorm.DB) error {
		registration = models.GameRegistration{
			GameID:        game.ID,
			UserID:        userID,
			PaymentStatus: models.PaymentPending,
		}
		if err := tx.Create(&registration).Error; err != nil {
			return err
		}
		item := models.CartItem{
			UserID:         userID,
			RegistrationID: registration.ID,
			Amount:         game.Fee,
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		logger.Error("Failed to create registration", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"message":        "Registered, fee added to cart",
		"registrationId": registration.ID,
	})
}

// MyRegistrations lists the authenticated student's registrations.
func MyRegistrations(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var registrations []models.GameRegistration
	err := db.Preload("Game").
		Where("user_id = ?", middlewares.UserID(c)).
		Find(&registrations).Error
	if err != nil {
		logger.Error("Failed to list registrations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list registrations"})
		return
	}

	var out []gin.H
	for _, r := range registrations {
		entry := gin.H{
			"registrationId": r.ID,
			"gameId":         r.GameID,
			"gameName":       r.Game.Name,
			"paymentStatus":  r.PaymentStatus,
		}
		if r.TeamID != nil {
			entry["teamId"] = *r.TeamID
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "registrations": out})
}
