package handlers

import (
	"net/http"

	"unisport/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListRoles returns every role with its permission names.
func ListRoles(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var roles []models.Role
	if err := db.Preload("Permissions").Find(&roles).Error; err != nil {
		logger.Error("Failed to list roles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list roles"})
		return
	}

	var out []gin.H
	for _, role := range roles {
		perms := []string{}
		for _, p := range role.Permissions {
			perms = append(perms, p.Name)
		}
		out = append(out, gin.H{"name": role.Name, "permissions": perms})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "roles": out})
}

// RoleRequest is the body for creating a role or replacing its permissions.
type RoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// CreateRole creates a named role with the given permission set. Unknown
// permissions are created on the fly.
func CreateRole(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request RoleRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Role name is required"})
		return
	}

	var existing models.Role
	if err := db.Where("name = ?", request.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Role already exists"})
		return
	}

	role := models.Role{Name: request.Name}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return err
		}
		return replacePermissions(tx, &role, request.Permissions)
	})
	if err != nil {
		logger.Error("Failed to create role", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create role"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Role created"})
}

// UpdateRolePermissions replaces a role's permission set.
func UpdateRolePermissions(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var role models.Role
	if err := db.Where("name = ?", c.Param("roleName")).First(&role).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Role not found"})
		return
	}

	var request RoleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request binding error"})
		return
	}

	if err := replacePermissions(db, &role, request.Permissions); err != nil {
		logger.Error("Failed to update role permissions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update permissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Permissions updated"})
}

func replacePermissions(db *gorm.DB, role *models.Role, names []string) error {
	perms := make([]models.Permission, 0, len(names))
	for _, name := range names {
		var perm models.Permission
		if err := db.Where("name = ?", name).FirstOrCreate(&perm, models.Permission{Name: name}).Error; err != nil {
			return err
		}
		perms = append(perms, perm)
	}
	return db.Model(role).Association("Permissions").Replace(perms)
}

// AssignRoleRequest is the body of PUT /admin/users/:studentId/role.
type AssignRoleRequest struct {
	Role string `json:"role"`
}

// AssignUserRole changes a user's role. The role must exist.
func AssignUserRole(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var user models.User
	if err := db.Where("student_id = ?", c.Param("studentId")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	var request AssignRoleRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Role is required"})
		return
	}

	var role models.Role
	if err := db.Where("name = ?", request.Role).First(&role).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Role not found"})
		return
	}

	if err := db.Model(&user).Update("role", role.Name).Error; err != nil {
		logger.Error("Failed to assign role", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to assign role"})
		return
	}
	logger.Info("Role assigned", zap.String("studentID", user.StudentID), zap.String("role", role.Name))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Role assigned"})
}
