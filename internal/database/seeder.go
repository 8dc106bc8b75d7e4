package database

import (
	"errors"

	"go-resto-api/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed inserts the fixed reference rows and the default admin account.
// The numeric IDs matter: business logic keys off them (Confirmado = 2),
// so rows are created with explicit IDs and never renumbered.
func Seed(db *gorm.DB, adminEmail, adminPassword string) {
	paymentMethods := []models.PaymentMethod{
		{ID: 1, Name: "Efectivo"},
		{ID: 2, Name: "Transferencia"},
		{ID: 3, Name: "Otro"},
	}
	for _, pm := range paymentMethods {
		if err := db.FirstOrCreate(&models.PaymentMethod{}, pm).Error; err != nil {
			log.Error().Err(err).Str("name", pm.Name).Msg("Failed to seed payment method")
		}
	}

	statuses := []models.OrderStatus{
		{ID: models.StatusPending, Name: "Pendiente"},
		{ID: models.StatusConfirmed, Name: "Confirmado"},
		{ID: models.StatusRejected, Name: "Rechazado"},
		{ID: models.StatusDelivered, Name: "Entregado"},
	}
	for _, st := range statuses {
		if err := db.FirstOrCreate(&models.OrderStatus{}, st).Error; err != nil {
			log.Error().Err(err).Str("name", st.Name).Msg("Failed to seed order status")
		}
	}

	deliveryModes := []models.DeliveryMode{
		{ID: 1, Name: "Retiro"},
		{ID: 2, Name: "Envío"},
	}
	for _, dm := range deliveryModes {
		if err := db.FirstOrCreate(&models.DeliveryMode{}, dm).Error; err != nil {
			log.Error().Err(err).Str("name", dm.Name).Msg("Failed to seed delivery mode")
		}
	}

	if adminEmail == "" || adminPassword == "" {
		return
	}

	var admin models.Admin
	err := db.Where("email = ?", adminEmail).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			log.Error().Err(hashErr).Msg("Failed to hash default admin password")
			return
		}
		if err := db.Create(&models.Admin{Email: adminEmail, PasswordHash: string(hash)}).Error; err != nil {
			log.Error().Err(err).Msg("Failed to seed admin account")
			return
		}
		log.Info().Str("email", adminEmail).Msg("Admin account seeded")
	}
}
