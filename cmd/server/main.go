package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	billingapp "github.com/nyumbani/backend/internal/application/billing"
	identityapp "github.com/nyumbani/backend/internal/application/identity"
	landlordapp "github.com/nyumbani/backend/internal/application/landlord"
	leasingapp "github.com/nyumbani/backend/internal/application/leasing"
	propertyapp "github.com/nyumbani/backend/internal/application/property"
	"github.com/nyumbani/backend/internal/domain/shared"
	"github.com/nyumbani/backend/internal/infrastructure/auth"
	"github.com/nyumbani/backend/internal/infrastructure/cache"
	"github.com/nyumbani/backend/internal/infrastructure/config"
	"github.com/nyumbani/backend/internal/infrastructure/logger"
	"github.com/nyumbani/backend/internal/infrastructure/media"
	"github.com/nyumbani/backend/internal/infrastructure/payment"
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
	"github.com/nyumbani/backend/internal/interfaces/http/handler"
	"github.com/nyumbani/backend/internal/interfaces/http/router"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Nyumbani backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Callback dedupe store. Redis keeps deliveries idempotent across
	// instances; a single dev instance can run without it.
	var idempotency shared.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory callback dedupe", zap.Error(err))
		memStore := cache.NewInMemoryIdempotencyStore()
		defer func() {
			_ = memStore.Close()
		}()
		idempotency = memStore
	} else {
		idempotency = redisStore
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	darajaClient := payment.NewDarajaClient(cfg.Mpesa, log)
	cloudinaryClient := media.NewCloudinaryClient(cfg.Cloudinary, log)

	propertyService := propertyapp.NewPropertyService(db.DB, log)
	unitService := propertyapp.NewUnitService(db.DB, log)
	tenantService := leasingapp.NewTenantService(db.DB, log)
	applicationService := leasingapp.NewApplicationService(db.DB, log)
	landlordService := landlordapp.NewLandlordService(db.DB, log)
	paymentService := billingapp.NewPaymentService(db.DB, darajaClient, idempotency,
		cfg.Mpesa.CallbackDedupeTTL, log)
	authService := identityapp.NewAuthService(persistence.NewGormUserRepository(db.DB), jwtService, log)

	r := router.New(cfg, jwtService, log)
	r.Register(
		handler.NewHealthHandler(db, version),
		handler.NewAuthHandler(authService),
		handler.NewPropertyHandler(propertyService),
		handler.NewUnitHandler(unitService),
		handler.NewApplicationHandler(applicationService),
		handler.NewTenantHandler(tenantService),
		handler.NewLandlordHandler(landlordService, jwtService),
		handler.NewPaymentHandler(paymentService),
		handler.NewMediaHandler(cloudinaryClient),
	)
	engine := r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}
