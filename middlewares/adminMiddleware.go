package middlewares

import (
	"net/http"

	"unisport/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireAdmin blocks requests whose token role is not admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != models.RoleNameAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access required"})
			return
		}
		c.Next()
	}
}

// RequirePermission allows the admin role through unconditionally and checks
// any other role's permission set against the roles table.
func RequirePermission(db *gorm.DB, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleName, _ := c.Get("role")
		if roleName == models.RoleNameAdmin {
			c.Next()
			return
		}

		var count int64
		db.Model(&models.Permission{}).
			Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
			Joins("JOIN roles ON roles.id = role_permissions.role_id").
			Where("roles.name = ? AND permissions.name = ?", roleName, permission).
			Count(&count)
		if count == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Permission denied"})
			return
		}
		c.Next()
	}
}
