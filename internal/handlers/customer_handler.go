package handlers

import (
	"net/http"

	"go-resto-api/internal/database"
	"go-resto-api/internal/models"

	"github.com/gin-gonic/gin"
)

type customerRequest struct {
	DNI     string `json:"dni" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// --- GET: /clientes ---
func GetCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := database.DB.Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// --- GET: /clientes/:dni ---
func GetCustomer(c *gin.Context) {
	var customer models.Customer
	if err := database.DB.Where("dni = ?", c.Param("dni")).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer retrieved successfully", "customer": customer})
}

// --- POST: /clientes ---
func CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	var count int64
	database.DB.Model(&models.Customer{}).Where("dni = ?", req.DNI).Count(&count)
	if count > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"dni": "dni already registered"}})
		return
	}

	customer := models.Customer{DNI: req.DNI, Name: req.Name, Phone: req.Phone, Address: req.Address}
	if err := database.DB.Create(&customer).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to create customer", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Customer created successfully", "customer": customer})
}

// --- PUT: /clientes/:dni (partial) ---
func UpdateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := database.DB.Where("dni = ?", c.Param("dni")).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}

	if err := database.DB.Save(&customer).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update customer", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully", "customer": customer})
}

// --- DELETE: /clientes/:dni ---
// Unconditional: orders referencing the customer keep their DNI value.
func DeleteCustomer(c *gin.Context) {
	dni := c.Param("dni")

	var customer models.Customer
	if err := database.DB.Where("dni = ?", dni).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}

	if err := database.DB.Delete(&customer).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to delete customer", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully", "dni": dni})
}
