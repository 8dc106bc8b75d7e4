package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
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

func setupCustomerTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	r := gin.New()
	r.GET("/clientes", GetCustomers)
	r.GET("/clientes/:dni", GetCustomer)
	r.POST("/clientes", CreateCustomer)
	r.PUT("/clientes/:dni", UpdateCustomer)
	r.DELETE("/clientes/:dni", DeleteCustomer)
	return r
}

func TestCustomerCRUD(t *testing.T) {
	r := setupCustomerTest(t)

	w := postJSON(t, r, "/clientes", gin.H{
		"dni": "30111222", "name": "Ana", "phone": "555", "address": "Calle 1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate DNI is a validation error, not a storage error
	w = postJSON(t, r, "/clientes", gin.H{"dni": "30111222", "name": "Otra"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/clientes/30111222", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var shown struct {
		Customer models.Customer `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shown))
	assert.Equal(t, "Ana", shown.Customer.Name)

	// Partial update leaves unmentioned fields alone
	payload := []byte(`{"phone":"999"}`)
	req = httptest.NewRequest(http.MethodPut, "/clientes/30111222", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Customer
	require.NoError(t, database.DB.Where("dni = ?", "30111222").First(&reloaded).Error)
	assert.Equal(t, "999", reloaded.Phone)
	assert.Equal(t, "Ana", reloaded.Name)

	req = httptest.NewRequest(http.MethodDelete, "/clientes/30111222", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/clientes/30111222", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCustomerWithOrders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Foreign keys ON, like production MySQL: the delete must still
	// succeed and the order must keep its DNI value.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.Seed(db, "", "")
	database.DB = db

	require.NoError(t, db.Create(&models.Customer{DNI: "30111222", Name: "Ana"}).Error)
	dni := "30111222"
	order := models.Order{
		StatusID:        models.StatusConfirmed,
		PaymentMethodID: 1,
		DeliveryModeID:  1,
		CustomerDNI:     &dni,
	}
	require.NoError(t, db.Create(&order).Error)

	r := gin.New()
	r.DELETE("/clientes/:dni", DeleteCustomer)

	req := httptest.NewRequest(http.MethodDelete, "/clientes/30111222", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.NotNil(t, reloaded.CustomerDNI)
	assert.Equal(t, "30111222", *reloaded.CustomerDNI)
}

func TestCreateCustomerValidation(t *testing.T) {
	r := setupCustomerTest(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing dni", gin.H{"name": "Ana"}},
		{"missing name", gin.H{"dni": "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/clientes", tt.body, nil)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}
}
