package database

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"quickbite-backend/models"
)

var DB *gorm.DB

// Connect opens the Postgres connection pool using environment variables.
func Connect() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	dbUser := os.Getenv("POSTGRES_USER")
	dbPassword := os.Getenv("POSTGRES_PASSWORD")
	dbName := os.Getenv("POSTGRES_DB")
	dbHost := os.Getenv("POSTGRES_HOST")
	dbPort := os.Getenv("POSTGRES_PORT")
	sslMode := os.Getenv("POSTGRES_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Asia/Kolkata",
		dbHost, dbUser, dbPassword, dbName, dbPort, sslMode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return nil
}

// Migrate runs AutoMigrate for every persisted entity, leaf tables first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CustomerProfile{},
		&models.DeliveryPartnerProfile{},
		&models.Cuisine{},
		&models.Restaurant{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.RestaurantReview{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderTracking{},
		&models.DeliveryReview{},
		&models.DeliveryZone{},
		&models.DeliveryAssignment{},
		&models.DeliveryEarnings{},
		&models.Commission{},
		&models.Payout{},
		&models.Promotion{},
		&models.PromoUsage{},
		&models.LoyaltyProgram{},
		&models.FraudAlert{},
		&models.SupportTicket{},
	)
}

// Close releases the underlying connection pool.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
