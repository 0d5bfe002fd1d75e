package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
	"github.com/BeltranHC/ecomerce-akemy-sub000/notify"
	"github.com/BeltranHC/ecomerce-akemy-sub000/routes"
	"github.com/BeltranHC/ecomerce-akemy-sub000/services"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusLog{},
		&models.OrderSequence{},
		&models.InventoryMovement{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.LoyaltyAccount{},
		&models.LoyaltyEntry{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Wire up the order engine
	hub := notify.NewHub()
	notifier := services.MultiNotifier{
		notify.NewEmailNotifier(db,
			os.Getenv("SMTP_HOST"),
			os.Getenv("SMTP_PORT"),
			os.Getenv("SMTP_FROM")),
		notify.NewPushNotifier(hub),
	}
	ledger := services.NewLedger(db)
	allocator := services.NewOrderNumberAllocator(os.Getenv("ORDER_NUMBER_PREFIX"))
	coupons := services.NewCouponService()
	loyalty := services.NewLoyaltyService(db)
	checkout := services.NewCheckoutService(db, ledger, allocator, coupons, notifier)
	states := services.NewStateMachine(db, ledger, loyalty, notifier)

	routes.SetupRoutes(r, routes.Deps{
		DB:       db,
		Ledger:   ledger,
		Checkout: checkout,
		States:   states,
		Hub:      hub,
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}
