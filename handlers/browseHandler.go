package handlers

import (
	"net/http"

	"unisport/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListTournaments returns every tournament, newest first.
func ListTournaments(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var tournaments []models.Tournament
	if err := db.Order("registration_deadline DESC").Find(&tournaments).Error; err != nil {
		logger.Error("Failed to list tournaments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list tournaments"})
		return
	}

	var out []gin.H
	for _, t := range tournaments {
		out = append(out, gin.H{
			"tournamentId":         t.ID,
			"name":                 t.Name,
			"season":               t.Season,
			"registrationDeadline": t.RegistrationDeadline,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tournaments": out})
}

// ListTournamentGames returns the games of one tournament.
func ListTournamentGames(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var tournament models.Tournament
	if err := db.First(&tournament, c.Param("tournamentId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Tournament not found"})
		return
	}

	var games []models.Game
	if err := db.Where("tournament_id = ?", tournament.ID).Find(&games).Error; err != nil {
		logger.Error("Failed to list games", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list games"})
		return
	}

	var out []gin.H
	for _, g := range games {
		out = append(out, gin.H{
			"gameId":   g.ID,
			"name":     g.Name,
			"category": g.Category,
			"teamSize": g.TeamSize,
			"fee":      g.Fee,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "games": out})
}

// GetGame returns one game with its tournament deadline.
func GetGame(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var game models.Game
	if err := db.Preload("Tournament").First(&game, c.Param("gameId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"gameId":               game.ID,
		"name":                 game.Name,
		"category":             game.Category,
		"teamSize":             game.TeamSize,
		"fee":                  game.Fee,
		"tournamentId":         game.TournamentID,
		"registrationDeadline": game.Tournament.RegistrationDeadline,
	})
}
