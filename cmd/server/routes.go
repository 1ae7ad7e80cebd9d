package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"beerhall/config"
	"beerhall/internal/database"
	"beerhall/internal/gateway/handlers"
	"beerhall/internal/gateway/middleware"
	"beerhall/internal/notify"
	"beerhall/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.Auth.JWTSecret)

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	if err := database.Seed(db); err != nil {
		log.Fatalf("failed to seed demo catalog: %v", err)
	}

	var rdb *redis.Client
	if cfg.MenuCache {
		rdb, err = config.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Warning: menu cache disabled: %v", err)
		}
	}

	notifier := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)

	r := setupRouter(db, rdb, notifier, cfg)

	log.Printf("beerhall listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupRouter(db *gorm.DB, rdb *redis.Client, notifier *notify.Notifier, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit())

	catalogHandler := handlers.NewCatalogHandler(db, rdb)
	couponHandler := handlers.NewCouponHandler(db)
	orderHandler := handlers.NewOrderHandler(db, notifier)
	memberHandler := handlers.NewMemberHandler(db)
	reportHandler := handlers.NewReportHandler(db)
	authHandler := handlers.NewAuthHandler(cfg.Auth)

	// --- Public routes ---
	r.GET("/menu", catalogHandler.PublicMenu)
	r.POST("/orders", orderHandler.CreateOrder)
	r.GET("/account", orderHandler.Account)
	r.POST("/admin/login", authHandler.Login)

	// --- Admin routes ---
	admin := r.Group("/admin")
	admin.Use(middleware.AdminAuth())
	{
		admin.GET("/categories", catalogHandler.ListCategories)
		admin.POST("/categories", catalogHandler.CreateCategory)
		admin.GET("/items", catalogHandler.ListItems)
		admin.POST("/items", catalogHandler.CreateItem)
		admin.GET("/coupons", couponHandler.ListCoupons)
		admin.POST("/coupons", couponHandler.CreateCoupon)
		admin.GET("/members", memberHandler.ListMembers)
		admin.GET("/reports", reportHandler.Reports)
	}

	return r
}
