package handlers

import (
	"net/http"
	"time"

	"go-resto-api/internal/database"
	"go-resto-api/internal/models"

	"github.com/gin-gonic/gin"
)

const saleDateLayout = "2006-01-02"

type saleRequest struct {
	Date    string   `json:"date" binding:"required"`
	Amount  *float64 `json:"amount" binding:"required"`
	OrderID uint     `json:"order_id" binding:"required"`
}

func orderExists(id uint) bool {
	var n int64
	database.DB.Model(&models.Order{}).Where("id = ?", id).Count(&n)
	return n > 0
}

// --- GET: /ventas ---
func GetSales(c *gin.Context) {
	var sales []models.Sale
	if err := database.DB.Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch sales"})
		return
	}
	c.JSON(http.StatusOK, sales)
}

// --- GET: /ventas/:id ---
func GetSale(c *gin.Context) {
	var sale models.Sale
	if err := database.DB.First(&sale, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Sale not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sale retrieved successfully", "sale": sale})
}

// --- POST: /ventas ---
func CreateSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	date, err := time.Parse(saleDateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"date": "date must use the YYYY-MM-DD format"}})
		return
	}
	if *req.Amount < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"amount": "amount must not be negative"}})
		return
	}
	if !orderExists(req.OrderID) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"order_id": "order does not exist"}})
		return
	}

	sale := models.Sale{Date: date, Amount: *req.Amount, OrderID: req.OrderID}
	if err := database.DB.Create(&sale).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to create sale", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Sale created successfully", "sale": sale})
}

// --- PUT: /ventas/:id (partial) ---
func UpdateSale(c *gin.Context) {
	var sale models.Sale
	if err := database.DB.First(&sale, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Sale not found"})
		return
	}

	var req struct {
		Date    *string  `json:"date"`
		Amount  *float64 `json:"amount"`
		OrderID *uint    `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	if req.Date != nil {
		date, err := time.Parse(saleDateLayout, *req.Date)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"date": "date must use the YYYY-MM-DD format"}})
			return
		}
		sale.Date = date
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"amount": "amount must not be negative"}})
			return
		}
		sale.Amount = *req.Amount
	}
	if req.OrderID != nil {
		if !orderExists(*req.OrderID) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"order_id": "order does not exist"}})
			return
		}
		sale.OrderID = *req.OrderID
	}

	if err := database.DB.Save(&sale).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update sale", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sale updated successfully", "sale": sale})
}

// --- DELETE: /ventas/:id ---
func DeleteSale(c *gin.Context) {
	var sale models.Sale
	if err := database.DB.First(&sale, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Sale not found"})
		return
	}

	if err := database.DB.Delete(&sale).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to delete sale", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted successfully", "sale": sale.ID})
}
