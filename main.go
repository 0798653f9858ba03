package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	applog "quickbite-backend/common/logger"
	commonmw "quickbite-backend/common/middleware"
	"quickbite-backend/controllers"
	"quickbite-backend/database"
	"quickbite-backend/kafka"
	"quickbite-backend/repository"
	"quickbite-backend/routes"
	"quickbite-backend/services"
)

func main() {
	applog.Initialize(getEnv("APP_ENV", "production"))
	logger := applog.Log
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// --- Database ---
	if err := database.Connect(); err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	if err := database.Migrate(database.DB); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}

	// --- Kafka producer (best-effort event publishing) ---
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.OrderEventTopic)
	if err != nil {
		logger.Warn("Kafka producer init failed (non-fatal)", zap.Error(err))
		producer = nil
	}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(commonmw.SecurityHeaders())
	r.Use(commonmw.CORSMiddleware())
	r.Use(commonmw.RateLimitMiddleware())

	r.Use(applog.RequestLogger())

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Dependency injection ---
	userRepo := repository.NewGormUserRepository(database.DB)
	catalogRepo := repository.NewGormCatalogRepository(database.DB)
	orderRepo := repository.NewGormOrderRepository(database.DB)
	deliveryRepo := repository.NewGormDeliveryRepository(database.DB)
	promoRepo := repository.NewGormPromotionRepository(database.DB)
	platformRepo := repository.NewGormPlatformRepository(database.DB)

	accountService := services.NewAccountService(userRepo, logger)
	catalogService := services.NewCatalogService(catalogRepo, logger)
	promotionService := services.NewPromotionService(promoRepo, orderRepo, logger)
	platformService := services.NewPlatformService(platformRepo, deliveryRepo, userRepo, logger)
	deliveryService := services.NewDeliveryService(deliveryRepo, orderRepo, userRepo, logger)

	var publisher services.OrderEventPublisher
	if producer != nil {
		publisher = producer
	}
	orderService := services.NewOrderService(orderRepo, catalogRepo, userRepo, platformRepo,
		promotionService, publisher, cfg.TaxRate, logger)

	accountController := controllers.NewAccountController(accountService)
	restaurantController := controllers.NewRestaurantController(catalogService)
	orderController := controllers.NewOrderController(orderService)
	deliveryController := controllers.NewDeliveryController(deliveryService)
	promotionController := controllers.NewPromotionController(promotionService)
	adminController := controllers.NewAdminController(platformService)

	routes.RegisterAuthRoutes(r, accountController)
	routes.RegisterUserRoutes(r, accountController)
	routes.RegisterRestaurantRoutes(r, restaurantController, orderController, adminController)
	routes.RegisterOrderRoutes(r, orderController)
	routes.RegisterDeliveryRoutes(r, deliveryController, accountController, orderController)
	routes.RegisterPromotionRoutes(r, promotionController)
	routes.RegisterPlatformRoutes(r, adminController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "quickbite-backend"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("QuickBite backend started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	httpShutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(httpShutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if producer != nil {
		producer.Close()
	}
	if err := database.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	log.Println("QuickBite backend stopped gracefully")
}
