// Package main provides the main entry point for the Caribe Transfers booking API
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caribetransfers/backend/app/handlers"
	"github.com/caribetransfers/backend/app/router"
	"github.com/caribetransfers/backend/app/services"
	businessflow "github.com/caribetransfers/backend/business_flow"
	"github.com/caribetransfers/backend/config"
	"github.com/caribetransfers/backend/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Caribe Transfers application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity.
// Returns nil when the configured provider is not redis.
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeRateCache picks the cache backend for resolver results based on
// configuration. Caching disabled means every lookup goes to the store.
func initializeRateCache(cfg config.CacheConfig, rc *redis.Client) services.RateCache {
	if !cfg.Enabled {
		log.Println("Pricing cache disabled")
		return services.NewNoopRateCache()
	}
	if cfg.Provider == "redis" && rc != nil {
		return services.NewRedisRateCache(rc, cfg)
	}
	log.Println("Pricing cache using in-memory backend")
	return services.NewMemoryRateCache()
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	zoneRepo := repository.NewZoneRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	serviceTypeRepo := repository.NewServiceTypeRepository(db)
	vehicleTypeRepo := repository.NewVehicleTypeRepository(db)
	rateRepo := repository.NewRateRepository(db)
	currencyRepo := repository.NewCurrencyExchangeRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	rateCache := initializeRateCache(cfg.Cache, rc)
	stopFuncs = append(stopFuncs, func() {
		if err := rateCache.Close(); err != nil {
			log.Printf("Failed to close rate cache: %v", err)
		}
	})

	notificationService := services.NewLogNotificationService()

	// Initialize flows
	currencyFlow := businessflow.NewCurrencyFlow(currencyRepo, auditRepo)

	pricingFlow := businessflow.NewPricingFlow(
		rateRepo,
		locationRepo,
		serviceTypeRepo,
		rateCache,
		currencyFlow,
		cfg.Cache,
		cfg.Pricing,
	)

	bookingFlow := businessflow.NewBookingFlow(
		db,
		serviceTypeRepo,
		vehicleTypeRepo,
		customerRepo,
		bookingRepo,
		auditRepo,
		pricingFlow,
		currencyFlow,
		notificationService,
		cfg.Pricing,
	)

	rateAdminFlow := businessflow.NewRateAdminFlow(
		rateRepo,
		zoneRepo,
		locationRepo,
		serviceTypeRepo,
		vehicleTypeRepo,
		auditRepo,
		rateCache,
		cfg.Pricing,
	)

	// Initialize handlers
	pricingHandler := handlers.NewPricingHandler(pricingFlow, currencyFlow)
	bookingHandler := handlers.NewBookingHandler(bookingFlow)
	rateAdminHandler := handlers.NewRateAdminHandler(rateAdminFlow, currencyFlow)

	// Initialize router
	appRouter := router.NewFiberRouter(cfg, pricingHandler, bookingHandler, rateAdminHandler)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
