package middlewares

import (
	"net/http"
	"strings"

	"unisport/auth"
	"unisport/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RequireAuth validates the Bearer token, rejects revoked sessions and puts
// the verified subject into the request context. All identity guards read the
// context values, never client-supplied IDs.
func RequireAuth(rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if strings.HasPrefix(tokenString, "Bearer ") {
			tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token is required"})
			return
		}

		claims, err := auth.ParseToken(tokenString)
		if err != nil {
			logger.Warn("Failed to validate token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		if auth.IsRevoked(c.Request.Context(), rdb, claims.ID) {
			logger.Warn("Revoked token used", zap.String("studentID", claims.StudentID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Session has been logged out"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("studentID", claims.StudentID)
		c.Set("role", claims.Role)
		c.Set("claims", claims)
		c.Next()
	}
}

// UserID returns the authenticated user's database ID from the context.
func UserID(c *gin.Context) uint {
	v, _ := c.Get("userID")
	id, _ := v.(uint)
	return id
}

// StudentID returns the authenticated student ID from the context.
func StudentID(c *gin.Context) string {
	v, _ := c.Get("studentID")
	s, _ := v.(string)
	return s
}

// Claims returns the verified token claims stored by RequireAuth, or nil on
// an unauthenticated request.
func Claims(c *gin.Context) *models.AuthClaims {
	v, _ := c.Get("claims")
	claims, _ := v.(*models.AuthClaims)
	return claims
}
