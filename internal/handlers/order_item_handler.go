package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go-resto-api/internal/database"
	"go-resto-api/internal/models"
	"go-resto-api/internal/orders"

	"github.com/gin-gonic/gin"
)

// OrderItemHandler exposes the line-item endpoints. Writes go through
// the order service so subtotals stay server-computed.
type OrderItemHandler struct {
	svc *orders.Service
}

func NewOrderItemHandler(svc *orders.Service) *OrderItemHandler {
	return &OrderItemHandler{svc: svc}
}

// --- GET: /detalle_pedidos ---
func (h *OrderItemHandler) Index(c *gin.Context) {
	var items []models.OrderItem
	if err := database.DB.Preload("Product").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// --- GET: /detalle_pedidos/:id ---
func (h *OrderItemHandler) Show(c *gin.Context) {
	var item models.OrderItem
	if err := database.DB.Preload("Product").First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order item retrieved successfully", "order_item": item})
}

type orderItemRequest struct {
	OrderID   uint `json:"order_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// --- POST: /detalle_pedidos ---
// The subtotal is always derived from the current product price; any
// subtotal in the request body is ignored.
func (h *OrderItemHandler) Create(c *gin.Context) {
	var req orderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	item, err := h.svc.AddLineItem(c.Request.Context(), req.OrderID, req.ProductID, req.Quantity)
	if err != nil {
		if orders.IsValidation(err) || errors.Is(err, orders.ErrOrderNotFound) || errors.Is(err, orders.ErrProductNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to create order item", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order item created successfully", "order_item": item})
}

// --- PUT: /detalle_pedidos/:id ---
func (h *OrderItemHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order item ID"})
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	item, err := h.svc.UpdateLineItem(c.Request.Context(), uint(id), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Order item not found"})
		case orders.IsValidation(err):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update order item", "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order item updated successfully", "order_item": item})
}

// --- DELETE: /detalle_pedidos/:id ---
func (h *OrderItemHandler) Delete(c *gin.Context) {
	var item models.OrderItem
	if err := database.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order item not found"})
		return
	}

	if err := database.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to delete order item", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order item deleted successfully", "order_item": item.ID})
}
