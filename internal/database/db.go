package database

import (
	"time"

	"go-resto-api/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(dsn string) {
	if dsn == "" {
		log.Fatal().Msg("DB_DSN not configured")
	}

	var err error

	// Wait for the DB container to come up
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("Failed to connect to database, retrying in 2 seconds (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database after 5 attempts")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get database instance")
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info().Msg("Connected to MySQL")

	if err := Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database schema")
	}
	log.Info().Msg("Database schema synced")
}

// Migrate creates/updates every table. Kept separate from Connect so
// tests can run it against their own gorm.DB.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Category{},
		&models.Product{},
		&models.Customer{},
		&models.PaymentMethod{},
		&models.OrderStatus{},
		&models.DeliveryMode{},
		&models.Order{},
		&models.OrderItem{},
		&models.Sale{},
	)
}
