package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"go-resto-api/internal/database"
	"go-resto-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSaleTest(t *testing.T) (*gin.Engine, models.Order) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.Seed(db, "", "")
	database.DB = db

	order := models.Order{StatusID: models.StatusPending, PaymentMethodID: 1, DeliveryModeID: 1}
	require.NoError(t, db.Create(&order).Error)

	r := gin.New()
	r.GET("/ventas", GetSales)
	r.GET("/ventas/:id", GetSale)
	r.POST("/ventas", CreateSale)
	r.PUT("/ventas/:id", UpdateSale)
	r.DELETE("/ventas/:id", DeleteSale)
	return r, order
}

func TestCreateSale(t *testing.T) {
	r, order := setupSaleTest(t)

	tests := []struct {
		name       string
		body       gin.H
		wantStatus int
	}{
		{"valid sale", gin.H{"date": "2026-08-31", "amount": 451.50, "order_id": order.ID}, http.StatusCreated},
		{"zero amount", gin.H{"date": "2026-08-31", "amount": 0, "order_id": order.ID}, http.StatusCreated},
		{"negative amount", gin.H{"date": "2026-08-31", "amount": -50, "order_id": order.ID}, http.StatusUnprocessableEntity},
		{"bad date format", gin.H{"date": "31/08/2026", "amount": 100, "order_id": order.ID}, http.StatusUnprocessableEntity},
		{"missing order", gin.H{"date": "2026-08-31", "amount": 100, "order_id": 9999}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/ventas", tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	// No negative row slipped through
	var count int64
	require.NoError(t, database.DB.Model(&models.Sale{}).Where("amount < 0").Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateSaleRejectsNegativeAmount(t *testing.T) {
	r, order := setupSaleTest(t)

	w := postJSON(t, r, "/ventas", gin.H{"date": "2026-08-31", "amount": 100, "order_id": order.ID}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Sale models.Sale `json:"sale"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = putJSON(t, r, fmt.Sprintf("/ventas/%d", created.Sale.ID), gin.H{"amount": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var reloaded models.Sale
	require.NoError(t, database.DB.First(&reloaded, created.Sale.ID).Error)
	assert.InDelta(t, 100, reloaded.Amount, 0.001)

	w = putJSON(t, r, fmt.Sprintf("/ventas/%d", created.Sale.ID), gin.H{"amount": 80.5})
	assert.Equal(t, http.StatusOK, w.Code)
}
