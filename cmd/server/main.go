package main

import (
	"os"
	"time"

	"go-resto-api/internal/auth"
	"go-resto-api/internal/config"
	"go-resto-api/internal/database"
	"go-resto-api/internal/handlers"
	"go-resto-api/internal/mailer"
	"go-resto-api/internal/middleware"
	"go-resto-api/internal/notify"
	"go-resto-api/internal/orders"
	"go-resto-api/internal/tokencache"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}
	config.Load()
	cfg := config.AppConfig

	auth.SetSecret(cfg.Server.JWTSecret)
	handlers.SetBaseURL(cfg.Server.BaseURL)

	database.Connect(cfg.Database.DSN)
	database.Seed(database.DB, cfg.Defaults.AdminEmail, cfg.Defaults.AdminPassword)

	tokens := buildTokenStore(cfg)
	dispatcher := notify.NewDispatcher(buildNotifier(cfg), 64, 10*time.Second)
	defer dispatcher.Close()

	orderSvc := orders.NewService(database.DB, dispatcher)

	smtp := cfg.SMTP
	mail := mailer.NewSMTPMailer(smtp.Host, smtp.Port, smtp.User, smtp.Password, smtp.From)

	r := buildRouter(cfg, tokens, mail, orderSvc)

	log.Info().Str("port", cfg.Server.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}

func buildTokenStore(cfg *config.Config) tokencache.Store {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, using in-process token cache")
		return tokencache.NewMemoryStore()
	}
	store, err := tokencache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	return store
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	switch cfg.Notifier.Kind {
	case "amqp":
		n, err := notify.NewAMQPNotifier(cfg.Notifier.AMQPURL)
		if err != nil {
			log.Fatal().Err(err).Msg("AMQP connection failed")
		}
		return n
	default:
		return notify.NewWhatsAppNotifier(cfg.Notifier.WhatsAppToken, cfg.Notifier.WhatsAppPhoneID)
	}
}

func buildRouter(cfg *config.Config, tokens tokencache.Store, mail mailer.Mailer, orderSvc *orders.Service) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/uploads", "./uploads")
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })

	authH := handlers.NewAuthHandler(tokens, mail, cfg.SMTP.ResetURLBase)
	orderH := handlers.NewOrderHandler(orderSvc)
	itemH := handlers.NewOrderItemHandler(orderSvc)

	r.POST("/login", authH.Login)
	if cfg.Server.AllowRegistration {
		r.POST("/register", authH.Register)
		log.Warn().Msg("Registration route is OPEN, disable this in production")
	}
	r.POST("/password/email", authH.SendResetLink)
	r.POST("/password/reset", authH.ResetPassword)

	// The storefront browses the menu and places orders without a login.
	r.GET("/categorias", handlers.GetCategories)
	r.GET("/categorias/:id", handlers.GetCategory)
	r.GET("/productos", handlers.GetProducts)
	r.GET("/productos/:id", handlers.GetProduct)

	r.POST("/pedidos", orderH.Create)
	r.PUT("/pedidos/finalizar", orderH.Finalize)
	r.PUT("/pedidos/:id", orderH.Update)

	r.GET("/detalle_pedidos", itemH.Index)
	r.GET("/detalle_pedidos/:id", itemH.Show)
	r.POST("/detalle_pedidos", itemH.Create)
	r.PUT("/detalle_pedidos/:id", itemH.Update)
	r.DELETE("/detalle_pedidos/:id", itemH.Delete)

	r.GET("/clientes", handlers.GetCustomers)
	r.GET("/clientes/:dni", handlers.GetCustomer)
	r.POST("/clientes", handlers.CreateCustomer)
	r.PUT("/clientes/:dni", handlers.UpdateCustomer)
	r.DELETE("/clientes/:dni", handlers.DeleteCustomer)

	// Everything below is back-office and rides the bearer token.
	api := r.Group("/")
	api.Use(middleware.AuthMiddleware(tokens))
	{
		api.POST("/logout", authH.Logout)

		api.POST("/categorias", handlers.CreateCategory)
		api.PUT("/categorias/:id", handlers.UpdateCategory)
		api.DELETE("/categorias/:id", handlers.DeleteCategory)

		api.POST("/productos", handlers.CreateProduct)
		api.PUT("/productos/:id", handlers.UpdateProduct)
		api.DELETE("/productos/:id", handlers.DeleteProduct)

		api.GET("/pedidos", orderH.Index)
		api.GET("/pedidos/:id", orderH.Show)
		api.DELETE("/pedidos/:id", orderH.Delete)

		api.GET("/ventas", handlers.GetSales)
		api.GET("/ventas/:id", handlers.GetSale)
		api.POST("/ventas", handlers.CreateSale)
		api.PUT("/ventas/:id", handlers.UpdateSale)
		api.DELETE("/ventas/:id", handlers.DeleteSale)

		api.GET("/administrador", handlers.GetAdmin)
		api.PUT("/administrador", handlers.UpdateAdmin)
		api.DELETE("/administrador", handlers.DeleteAdmin)
	}

	return r
}
