package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/common/logger"
	commonmw "github.com/bhataakib02/retail-app/common/middleware"
	"github.com/bhataakib02/retail-app/controllers"
	"github.com/bhataakib02/retail-app/database"
	"github.com/bhataakib02/retail-app/middleware"
	awspkg "github.com/bhataakib02/retail-app/pkg/aws"
	"github.com/bhataakib02/retail-app/repository"
	"github.com/bhataakib02/retail-app/routes"
	"github.com/bhataakib02/retail-app/services"
	"github.com/bhataakib02/retail-app/session"
	"github.com/bhataakib02/retail-app/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const serviceName = "retail-app"

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// --- 1. AWS and logging ---

	var awsCfg *sdkaws.Config
	if cfg.CloudWatchEnabled || cfg.S3BucketImages != "" || cfg.OrderSNSTopic != "" {
		c, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			panic("failed to load aws config: " + err.Error())
		}
		awsCfg = &c
	}

	log, closeLogs, err := initLogger(ctx, cfg, awsCfg)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer closeLogs()
	defer log.Sync()
	zap.ReplaceGlobals(log)

	// --- 2. Stores ---

	db, err := database.Connect(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(cfg.DatabaseURL, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	sessionStore, closeSessions := newSessionStore(ctx, cfg, log)
	defer closeSessions()

	images, err := newImageStore(cfg, awsCfg)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	publisher, closePublisher := newPublisher(cfg, awsCfg, log)
	defer closePublisher()

	var metrics *awspkg.MetricsClient
	if cfg.CloudWatchEnabled && awsCfg != nil {
		metrics = awspkg.NewMetricsClient(*awsCfg, cfg.MetricsNamespace, true)
	}

	// --- 3. Dependency Injection ---

	userRepo := repository.NewGormUserRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)

	authService := services.NewAuthService(userRepo, cfg.BcryptCost, log)
	catalogService := services.NewCatalogService(productRepo, images, log)
	cartService := services.NewCartService(productRepo)
	checkoutService := services.NewCheckoutService(db, publisher, metrics, log)
	orderService := services.NewOrderService(orderRepo)
	dashboardService := services.NewDashboardService(userRepo, productRepo, orderRepo)

	handlers := routes.Handlers{
		Auth:    controllers.NewAuthController(authService),
		Admin:   controllers.NewAdminController(authService, dashboardService),
		Product: controllers.NewProductController(catalogService),
		Cart:    controllers.NewCartController(cartService),
		Order:   controllers.NewOrderController(cartService, checkoutService, orderService),
	}

	// --- 4. HTTP Server & Middleware ---

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(commonmw.Recovery(log))
	r.Use(logger.RequestID())
	r.Use(commonmw.RequestLogger(log, "/_health"))
	r.Use(commonmw.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(commonmw.Timeout(30 * time.Second))
	r.Use(commonmw.MetricsMiddleware(metrics, serviceName))
	r.Use(apperrors.ErrorMiddleware())

	if local, ok := images.(*storage.LocalStore); ok {
		r.Static("/static/images/products", local.Dir())
	}

	sessions := middleware.NewSessionManager(
		sessionStore,
		session.NewCodec(cfg.SecretKey, cfg.SessionTTL),
		cfg.SessionTTL,
		!cfg.IsDevelopment(),
		log,
	)
	app := r.Group("/", sessions.Middleware())

	limiter := commonmw.NewRateLimiter(rate.Every(6*time.Second), 5, 10*time.Minute)
	defer limiter.Stop()
	routes.RegisterRoutes(app, handlers, limiter)

	// --- 5. Graceful Shutdown ---

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Retail app starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exiting")
}
