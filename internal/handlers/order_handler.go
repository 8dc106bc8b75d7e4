package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go-resto-api/internal/orders"

	"github.com/gin-gonic/gin"
)

// OrderHandler exposes the order lifecycle over HTTP.
type OrderHandler struct {
	svc *orders.Service
}

func NewOrderHandler(svc *orders.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order ID"})
		return 0, false
	}
	return uint(id), true
}

// --- GET: /pedidos ---
// Listing groups line items of the same product into one merged entry.
func (h *OrderHandler) Index(c *gin.Context) {
	views, err := h.svc.ListWithDetails(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, views)
}

// --- GET: /pedidos/:id ---
func (h *OrderHandler) Show(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order retrieved successfully", "order": order})
}

// --- POST: /pedidos ---
// Opens a draft with system defaults; the customer arrives later via
// /pedidos/finalizar.
func (h *OrderHandler) Create(c *gin.Context) {
	order, err := h.svc.CreateDraft(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

type finalizeRequest struct {
	OrderID         uint   `json:"order_id" binding:"required"`
	DNI             string `json:"dni" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	Address         string `json:"address" binding:"required"`
	PaymentMethodID uint   `json:"payment_method_id" binding:"required"`
	DeliveryModeID  uint   `json:"delivery_mode_id" binding:"required"`
}

// --- PUT: /pedidos/finalizar ---
func (h *OrderHandler) Finalize(c *gin.Context) {
	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	order, err := h.svc.Finalize(c.Request.Context(), orders.FinalizeInput{
		OrderID:         req.OrderID,
		DNI:             req.DNI,
		Name:            req.Name,
		Phone:           req.Phone,
		Address:         req.Address,
		PaymentMethodID: req.PaymentMethodID,
		DeliveryModeID:  req.DeliveryModeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		case orders.IsValidation(err):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to finalize order", "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order finalized successfully", "order": order})
}

type orderUpdateRequest struct {
	PlacedAt        *time.Time `json:"placed_at"`
	Total           *float64   `json:"total"`
	CustomerDNI     *string    `json:"customer_dni"`
	PaymentMethodID *uint      `json:"payment_method_id"`
	StatusID        *uint      `json:"status_id"`
	DeliveryModeID  *uint      `json:"delivery_mode_id"`
	EstimatedTime   string     `json:"estimated_time"`
}

// --- PUT: /pedidos/:id (partial) ---
// Setting the status may enqueue the customer notification; delivery
// problems never affect this response.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req orderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	order, err := h.svc.Update(c.Request.Context(), id, orders.UpdateInput{
		PlacedAt:        req.PlacedAt,
		Total:           req.Total,
		CustomerDNI:     req.CustomerDNI,
		PaymentMethodID: req.PaymentMethodID,
		StatusID:        req.StatusID,
		DeliveryModeID:  req.DeliveryModeID,
		EstimatedTime:   req.EstimatedTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		case orders.IsValidation(err) || errors.Is(err, orders.ErrCustomerNotFound):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update order", "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "order": order})
}

// --- DELETE: /pedidos/:id ---
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to delete order", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully (its line items are removed as well)", "order": id})
}
