package database

import (
	"fmt"
	"testing"

	"go-resto-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestFindOrCreateCustomerCreatesWhenAbsent(t *testing.T) {
	db := openTestDB(t)

	customer, err := FindOrCreateCustomer(db, models.Customer{
		DNI: "30111222", Name: "Ana", Phone: "555", Address: "Calle 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", customer.Name)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindOrCreateCustomerFirstWriteWins(t *testing.T) {
	db := openTestDB(t)

	_, err := FindOrCreateCustomer(db, models.Customer{
		DNI: "30111222", Name: "Ana", Phone: "555", Address: "Calle 1",
	})
	require.NoError(t, err)

	// A later finalization with different contact data must not clobber
	customer, err := FindOrCreateCustomer(db, models.Customer{
		DNI: "30111222", Name: "Otra", Phone: "999", Address: "Otra calle",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", customer.Name)
	assert.Equal(t, "555", customer.Phone)
	assert.Equal(t, "Calle 1", customer.Address)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOrderItemsTotal(t *testing.T) {
	db := openTestDB(t)

	order := models.Order{StatusID: models.StatusPending, PaymentMethodID: 1, DeliveryModeID: 1}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.OrderItem{OrderID: order.ID, Quantity: 2, Subtotal: 301.00}).Error)
	require.NoError(t, db.Create(&models.OrderItem{OrderID: order.ID, Quantity: 1, Subtotal: 150.50}).Error)

	total, err := OrderItemsTotal(db, order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 451.50, total, 0.001)
}

func TestOrderItemsTotalEmptyOrder(t *testing.T) {
	db := openTestDB(t)

	order := models.Order{StatusID: models.StatusPending, PaymentMethodID: 1, DeliveryModeID: 1}
	require.NoError(t, db.Create(&order).Error)

	total, err := OrderItemsTotal(db, order.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	Seed(db, "admin@resto.test", "secret123")
	Seed(db, "admin@resto.test", "secret123")

	var statuses int64
	require.NoError(t, db.Model(&models.OrderStatus{}).Count(&statuses).Error)
	assert.Equal(t, int64(4), statuses)

	var admins int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)

	var confirmed models.OrderStatus
	require.NoError(t, db.First(&confirmed, models.StatusConfirmed).Error)
	assert.Equal(t, "Confirmado", confirmed.Name)
}
