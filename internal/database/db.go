package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"beerhall/internal/database/models"
)

func NewConnection(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		log.Fatal("DSN is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

// Migrate runs the idempotent schema migration. It is called once at
// startup, never from a request path.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Item{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
		&models.Member{},
	)
}

// Seed loads the demo catalog on a fresh database. It is a no-op as soon as
// any category exists.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	food := "food"
	in30 := time.Now().AddDate(0, 0, 30)
	in60 := time.Now().AddDate(0, 0, 60)

	return db.Transaction(func(tx *gorm.DB) error {
		categories := []models.Category{
			{ID: "beer", Name: "Bia", Pos: 1},
			{ID: "food", Name: "Đồ Ăn", Pos: 2},
			{ID: "snacks", Name: "Đồ Nhắm", ParentID: &food, Pos: 1},
			{ID: "main", Name: "Món Chính", ParentID: &food, Pos: 2},
		}
		if err := tx.Create(&categories).Error; err != nil {
			return err
		}

		items := []models.Item{
			{ID: "tiger", Name: "Tiger Beer", Description: "Bia Tiger chai 330ml", ImageURL: "https://images.unsplash.com/photo-1608270586620-248524c67de9?w=400", CategoryID: strPtr("beer"), SalePrice: 25000, CostPrice: 15000, IsActive: true},
			{ID: "heineken", Name: "Heineken", Description: "Bia Heineken lon 330ml", ImageURL: "https://images.unsplash.com/photo-1618885472179-5e474019f2a9?w=400", CategoryID: strPtr("beer"), SalePrice: 30000, CostPrice: 18000, IsActive: true},
			{ID: "saigon", Name: "Sài Gòn Đỏ", Description: "Bia Sài Gòn Đỏ chai 450ml", ImageURL: "https://images.unsplash.com/photo-1535958636474-b021ee887b13?w=400", CategoryID: strPtr("beer"), SalePrice: 22000, CostPrice: 13000, IsActive: true},
			{ID: "peanuts", Name: "Đậu Phộng Rang", Description: "Đậu phộng rang muối", ImageURL: "https://images.unsplash.com/photo-1599599810769-bcde5a160d32?w=400", CategoryID: strPtr("snacks"), SalePrice: 20000, CostPrice: 10000, IsActive: true},
			{ID: "squid", Name: "Mực Một Nắng", Description: "Mực một nắng nướng", ImageURL: "https://images.unsplash.com/photo-1626200419199-391ae4be7a41?w=400", CategoryID: strPtr("snacks"), SalePrice: 50000, CostPrice: 30000, IsActive: true},
			{ID: "wings", Name: "Cánh Gà Chiên", Description: "Cánh gà chiên nước mắm (6 cái)", ImageURL: "https://images.unsplash.com/photo-1527477396000-e27163b481c2?w=400", CategoryID: strPtr("main"), SalePrice: 60000, CostPrice: 35000, IsActive: true},
			{ID: "fries", Name: "Khoai Tây Chiên", Description: "Khoai tây chiên giòn", ImageURL: "https://images.unsplash.com/photo-1630384082596-cc7ceab4e708?w=400", CategoryID: strPtr("main"), SalePrice: 40000, CostPrice: 20000, IsActive: true},
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		coupons := []models.Coupon{
			{Code: "WELCOME10", DiscountPercent: 10, ExpiresAt: &in30},
			{Code: "VIP20", DiscountPercent: 20, ExpiresAt: &in60},
		}
		return tx.Create(&coupons).Error
	})
}

func strPtr(s string) *string {
	return &s
}
