package handlers

import (
	"net/http"
	"time"

	"unisport/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TournamentRequest is the body for creating or updating a tournament.
type TournamentRequest struct {
	Name                 string    `json:"name"`
	Season               string    `json:"season"`
	RegistrationDeadline time.Time `json:"registrationDeadline"`
}

// CreateTournament handles POST /admin/tournaments.
func CreateTournament(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request TournamentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}
	if request.Name == "" || request.RegistrationDeadline.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name and registrationDeadline are required"})
		return
	}

	tournament := models.Tournament{
		Name:                 request.Name,
		Season:               request.Season,
		RegistrationDeadline: request.RegistrationDeadline,
	}
	if err := db.Create(&tournament).Error; err != nil {
		logger.Error("Failed to create tournament", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create tournament"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "tournamentId": tournament.ID})
}

// UpdateTournament handles PUT /admin/tournaments/:tournamentId.
func UpdateTournament(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var tournament models.Tournament
	if err := db.First(&tournament, c.Param("tournamentId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Tournament not found"})
		return
	}

	var request TournamentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}
	if request.Name != "" {
		tournament.Name = request.Name
	}
	if request.Season != "" {
		tournament.Season = request.Season
	}
	if !request.RegistrationDeadline.IsZero() {
		tournament.RegistrationDeadline = request.RegistrationDeadline
	}

	if err := db.Save(&tournament).Error; err != nil {
		logger.Error("Failed to update tournament", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update tournament"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Tournament updated"})
}

// DeleteTournament refuses deletion while any of the tournament's games
// still hold registrations.
func DeleteTournament(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var tournament models.Tournament
	if err := db.First(&tournament, c.Param("tournamentId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Tournament not found"})
		return
	}

	var count int64
	db.Model(&models.GameRegistration{}).
		Joins("JOIN games ON games.id = game_registrations.game_id").
		Where("games.tournament_id = ?", tournament.ID).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Tournament has registrations and cannot be deleted"})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tournament_id = ?", tournament.ID).Delete(&models.Game{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tournament).Error
	})
	if err != nil {
		logger.Error("Failed to delete tournament", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete tournament"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Tournament deleted"})
}

// GameRequest is the body for creating or updating a game.
type GameRequest struct {
	TournamentID uint   `json:"tournamentId"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	TeamSize     int    `json:"teamSize"`
	Fee          int    `json:"fee"`
}

func validCategory(category string) bool {
	return category == models.CategoryMale ||
		category == models.CategoryFemale ||
		category == models.CategoryMix
}

// CreateGame handles POST /admin/games.
func CreateGame(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request GameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}
	if request.Name == "" || !validCategory(request.Category) || request.TeamSize < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid game definition"})
		return
	}

	var tournament models.Tournament
	if err := db.First(&tournament, request.TournamentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Tournament not found"})
		return
	}

	game := models.Game{
		TournamentID: tournament.ID,
		Name:         request.Name,
		Category:     request.Category,
		TeamSize:     request.TeamSize,
		Fee:          request.Fee,
	}
	if err := db.Create(&game).Error; err != nil {
		logger.Error("Failed to create game", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create game"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "gameId": game.ID})
}

// UpdateGame handles PUT /admin/games/:gameId. Category and team size are
// frozen once the game has registrations.
func UpdateGame(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var game models.Game
	if err := db.First(&game, c.Param("gameId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Game not found"})
		return
	}

	var request GameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}

	var registrations int64
	db.Model(&models.GameRegistration{}).Where("game_id = ?", game.ID).Count(&registrations)

	if registrations > 0 &&
		((request.Category != "" && request.Category != game.Category) ||
			(request.TeamSize > 0 && request.TeamSize != game.TeamSize)) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Game has registrations; category and team size cannot change"})
		return
	}

	if request.Name != "" {
		game.Name = request.Name
	}
	if request.Category != "" {
		if !validCategory(request.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category"})
			return
		}
		game.Category = request.Category
	}
	if request.TeamSize > 0 {
		game.TeamSize = request.TeamSize
	}
	if request.Fee > 0 {
		game.Fee = request.Fee
	}

	if err := db.Save(&game).Error; err != nil {
		logger.Error("Failed to update game", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update game"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Game updated"})
}

// DeleteGame refuses deletion while registrations exist.
func DeleteGame(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var game models.Game
	if err := db.First(&game, c.Param("gameId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Game not found"})
		return
	}

	var count int64
	db.Model(&models.GameRegistration{}).Where("game_id = ?", game.ID).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Game has registrations and cannot be deleted"})
		return
	}

	if err := db.Delete(&game).Error; err != nil {
		logger.Error("Failed to delete game", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete game"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Game deleted"})
}

// ListRegistrations gives the payment overview for the admin panel.
func ListRegistrations(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var registrations []models.GameRegistration
	if err := db.Preload("Game").Order("created_at DESC").Find(&registrations).Error; err != nil {
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
			"userId":         r.UserID,
			"paymentStatus":  r.PaymentStatus,
		}
		if r.TeamID != nil {
			entry["teamId"] = *r.TeamID
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "registrations": out})
}
