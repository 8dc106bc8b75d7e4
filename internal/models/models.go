package models

import (
	"time"
)

// Admin - the back-office account that manages the catalog
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:50" json:"email"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// Category groups products on the menu
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex;size:50" json:"name"`
	Image string `json:"-"` // relative path under uploads/
	// ImageURL is derived from Image + BASE_URL before serializing
	ImageURL string `gorm:"-" json:"image_url,omitempty"`
}

// Product - the menu items
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Price       float64   `json:"price"`
	Available   bool      `gorm:"default:true" json:"available"`
	Image       string    `json:"-"`
	ImageURL    string    `gorm:"-" json:"image_url,omitempty"`
	CategoryID  uint      `json:"category_id"`
	Category    *Category `json:"category,omitempty"`
}

// Customer is keyed by the national identifier (DNI), not a surrogate id
type Customer struct {
	DNI     string `gorm:"primaryKey;size:20" json:"dni"`
	Name    string `gorm:"size:100" json:"name"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`
}

// PaymentMethod / OrderStatus / DeliveryMode are small lookup tables.
// Their numeric IDs are stable and meaningful to business logic.
type PaymentMethod struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50" json:"name"`
}

type OrderStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50" json:"name"`
}

type DeliveryMode struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50" json:"name"`
}

// Well-known OrderStatus rows, seeded at startup.
const (
	StatusPending   uint = 1
	StatusConfirmed uint = 2
	StatusRejected  uint = 3
	StatusDelivered uint = 4
)

// Default reference rows used when a draft order is opened.
const (
	DefaultPaymentMethod uint = 1 // Efectivo
	DefaultDeliveryMode  uint = 1 // Retiro
)

// Order - the transaction header. CustomerDNI stays nil while the order
// is a point-of-sale draft and is attached at finalization. No FK
// constraint on customer_dni: customer deletion is unconditional and
// orders keep the DNI they were finalized with.
type Order struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	PlacedAt       time.Time      `json:"placed_at"`
	Total          float64        `json:"total"`
	CustomerDNI    *string        `gorm:"size:20" json:"customer_dni"`
	Customer       *Customer      `gorm:"foreignKey:CustomerDNI;references:DNI;constraint:-" json:"customer,omitempty"`
	PaymentMethodID uint          `json:"payment_method_id"`
	PaymentMethod  *PaymentMethod `json:"payment_method,omitempty"`
	StatusID       uint           `json:"status_id"`
	Status         *OrderStatus   `json:"status,omitempty"`
	DeliveryModeID uint           `json:"delivery_mode_id"`
	DeliveryMode   *DeliveryMode  `json:"delivery_mode,omitempty"`
	Items          []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem - one product-quantity-subtotal entry belonging to exactly
// one order. ProductID becomes nil when the product is deleted; reads
// must keep working through the fallback display.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `json:"order_id"`
	ProductID *uint    `json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `json:"quantity"`
	Subtotal  float64  `json:"subtotal"`
}

// Sale - a settled transaction derived from a confirmed order. Created
// explicitly, never automatically.
type Sale struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Date    time.Time `json:"date"`
	Amount  float64   `json:"amount"`
	OrderID uint      `json:"order_id"`
}
