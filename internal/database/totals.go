package database

import (
	"go-resto-api/internal/models"

	"gorm.io/gorm"
)

// OrderItemsTotal sums the stored subtotals of every line item on an
// order. COALESCE ensures we get 0 instead of NULL when the order has
// no line items yet.
func OrderItemsTotal(db *gorm.DB, orderID uint) (float64, error) {
	var total float64
	err := db.Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(SUM(subtotal), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
