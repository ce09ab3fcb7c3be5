package handlers

import (
	"net/http"

	"unisport/middlewares"
	"unisport/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GetCart lists the authenticated student's unpaid registration fees.
func GetCart(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var items []models.CartItem
	err := db.Preload("Registration").Preload("Registration.Game").
		Where("user_id = ?", middlewares.UserID(c)).
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to fetch cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart"})
		return
	}

	total := 0
	var out []gin.H
	for _, item := range items {
		total += item.Amount
		out = append(out, gin.H{
			"itemId":   item.ID,
			"gameId":   item.Registration.GameID,
			"gameName": item.Registration.Game.Name,
			"amount":   item.Amount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": out, "total": total})
}

// RemoveCartItem takes one fee out of the cart. The registration itself
// stays, marked UNPAID, so the slot is held until the deadline cleanup.
func RemoveCartItem(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	userID := middlewares.UserID(c)

	var item models.CartItem
	if err := db.Where("id = ? AND user_id = ?", c.Param("itemId"), userID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart item not found"})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GameRegistration{}).
			Where("id = ?", item.RegistrationID).
			Update("payment_status", models.PaymentUnpaid).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		logger.Error("Failed to remove cart item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed from cart"})
}

// Checkout marks every carted registration as PAID and empties the cart.
// Payment collection itself happens at the cashier; the reference ties the
// receipt to this checkout.
func Checkout(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	userID := middlewares.UserID(c)

	var items []models.CartItem
	if err := db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		logger.Error("Failed to fetch cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cart is empty"})
		return
	}

	reference := uuid.NewString()
	total := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			total += item.Amount
			if err := tx.Model(&models.GameRegistration{}).
				Where("id = ?", item.RegistrationID).
				Update("payment_status", models.PaymentPaid).Error; err != nil {
				return err
			}
		}
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		logger.Error("Checkout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Checkout failed"})
		return
	}

	logger.Info("Checkout completed",
		zap.Uint("userID", userID),
		zap.Int("total", total),
		zap.String("reference", reference),
	)
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Payment recorded",
		"paymentReference": reference,
		"total":            total,
	})
}
