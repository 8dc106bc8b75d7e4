package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Notifier NotifierConfig
	SMTP     SMTPConfig
	Defaults DefaultsConfig
}

type ServerConfig struct {
	Port              string
	BaseURL           string
	JWTSecret         string
	AllowRegistration bool
}

type DatabaseConfig struct {
	DSN string
}

// RedisConfig is optional: with an empty Addr the app falls back to the
// in-process token cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type NotifierConfig struct {
	// Kind selects the outbound gateway: "whatsapp" (default) or "amqp".
	Kind            string
	WhatsAppToken   string
	WhatsAppPhoneID string
	AMQPURL         string
}

type SMTPConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	From         string
	ResetURLBase string
}

type DefaultsConfig struct {
	AdminEmail    string
	AdminPassword string
}

var AppConfig *Config

func Load() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Msg("No .env file found, reading from environment")
	}
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("NOTIFIER_KIND", "whatsapp")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("RESET_URL_BASE", "http://localhost:4200/reset-password")

	AppConfig = &Config{
		Server: ServerConfig{
			Port:              viper.GetString("SERVER_PORT"),
			BaseURL:           viper.GetString("BASE_URL"),
			JWTSecret:         viper.GetString("JWT_SECRET"),
			AllowRegistration: viper.GetBool("ALLOW_REGISTRATION"),
		},
		Database: DatabaseConfig{
			DSN: viper.GetString("DB_DSN"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Notifier: NotifierConfig{
			Kind:            viper.GetString("NOTIFIER_KIND"),
			WhatsAppToken:   viper.GetString("WHATSAPP_TOKEN"),
			WhatsAppPhoneID: viper.GetString("WHATSAPP_PHONE_ID"),
			AMQPURL:         viper.GetString("AMQP_URL"),
		},
		SMTP: SMTPConfig{
			Host:         viper.GetString("SMTP_HOST"),
			Port:         viper.GetInt("SMTP_PORT"),
			User:         viper.GetString("SMTP_USER"),
			Password:     viper.GetString("SMTP_PASSWORD"),
			From:         viper.GetString("SMTP_FROM"),
			ResetURLBase: viper.GetString("RESET_URL_BASE"),
		},
		Defaults: DefaultsConfig{
			AdminEmail:    viper.GetString("ADMIN_EMAIL"),
			AdminPassword: viper.GetString("ADMIN_PASSWORD"),
		},
	}
}
