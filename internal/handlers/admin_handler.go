package handlers

import (
	"net/http"

	"go-resto-api/internal/database"
	"go-resto-api/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func currentAdmin(c *gin.Context) (*models.Admin, bool) {
	adminID := c.GetUint("adminID")

	var admin models.Admin
	if err := database.DB.First(&admin, adminID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Admin account not found"})
		return nil, false
	}
	return &admin, true
}

// --- GET: /administrador ---
func GetAdmin(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin retrieved successfully", "admin": admin})
}

// --- PUT: /administrador (partial) ---
// A new password is re-hashed before it touches storage; the hash never
// leaves the server either way.
func UpdateAdmin(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	var req struct {
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	if req.Email != nil && *req.Email != admin.Email {
		var count int64
		database.DB.Model(&models.Admin{}).Where("email = ? AND id <> ?", *req.Email, admin.ID).Count(&count)
		if count > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"email": "email already registered"}})
			return
		}
		admin.Email = *req.Email
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"password": "password must be at least 6 characters"}})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update admin"})
			return
		}
		admin.PasswordHash = string(hash)
	}

	if err := database.DB.Save(admin).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update admin", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin updated successfully", "admin": admin})
}

// --- DELETE: /administrador ---
func DeleteAdmin(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	if err := database.DB.Delete(admin).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to delete admin", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}
