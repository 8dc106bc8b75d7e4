package database

import (
	"errors"

	"go-resto-api/internal/models"

	"gorm.io/gorm"
)

// FindOrCreateCustomer looks a customer up by DNI and creates it when
// absent. First write wins: an existing customer's stored contact
// fields are never overwritten by later finalizations.
func FindOrCreateCustomer(db *gorm.DB, input models.Customer) (models.Customer, error) {
	var existing models.Customer
	err := db.Where("dni = ?", input.DNI).First(&existing).Error
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Customer{}, err
	}

	if err := db.Create(&input).Error; err != nil {
		return models.Customer{}, err
	}
	return input, nil
}
