package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/caterflow/backend/internal/application/catalog"
	dispatchapp "github.com/caterflow/backend/internal/application/dispatch"
	identityapp "github.com/caterflow/backend/internal/application/identity"
	inventoryapp "github.com/caterflow/backend/internal/application/inventory"
	partnerapp "github.com/caterflow/backend/internal/application/partner"
	procurementapp "github.com/caterflow/backend/internal/application/procurement"
	"github.com/caterflow/backend/internal/infrastructure/audit"
	"github.com/caterflow/backend/internal/infrastructure/auth"
	"github.com/caterflow/backend/internal/infrastructure/config"
	"github.com/caterflow/backend/internal/infrastructure/event"
	"github.com/caterflow/backend/internal/infrastructure/logger"
	"github.com/caterflow/backend/internal/infrastructure/persistence"
	"github.com/caterflow/backend/internal/infrastructure/storage"
	"github.com/caterflow/backend/internal/infrastructure/telemetry"
	"github.com/caterflow/backend/internal/interfaces/http/handler"
	"github.com/caterflow/backend/internal/interfaces/http/middleware"
	"github.com/caterflow/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CaterFlow Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Initialize OpenTelemetry providers (no-ops when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := loggerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	// Bridge zap into the OTLP log pipeline so application logs carry
	// trace context all the way to the collector
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore)
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled {
		if err := db.DB.Use(otelgorm.NewPlugin()); err != nil {
			log.Warn("Failed to enable GORM tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	siteRepo := persistence.NewGormSiteRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	binRepo := persistence.NewGormBinRepository(db.DB)
	binStockRepo := persistence.NewGormBinStockRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)
	binCountRepo := persistence.NewGormBinCountRepository(db.DB)
	dispatchRepo := persistence.NewGormDispatchLogRepository(db.DB)

	// Token blacklist backed by Redis, with an in-memory fallback so a
	// Redis outage does not block startup in development
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		log.Info("Redis token blacklist connected")
	}

	// Evidence storage: S3 (or any S3-compatible endpoint) when credentials
	// are configured, otherwise in-memory for local development
	var evidenceStorage dispatchapp.EvidenceStorage
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		s3Storage, err := storage.NewS3EvidenceStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize S3 evidence storage", zap.Error(err))
		}
		evidenceStorage = s3Storage
		log.Info("S3 evidence storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		evidenceStorage = storage.NewMemoryEvidenceStorage()
		log.Warn("No storage credentials configured, evidence files are kept in memory")
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	userService := identityapp.NewUserService(userRepo, siteRepo, log)

	// Master data services
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	siteService := partnerapp.NewSiteService(siteRepo, binRepo)
	stockItemService := catalogapp.NewStockItemService(stockItemRepo, supplierRepo, binStockRepo)
	binService := inventoryapp.NewBinService(binRepo, binStockRepo, siteRepo)

	// Document services
	purchaseOrderService := procurementapp.NewPurchaseOrderService(
		purchaseOrderRepo, supplierRepo, stockItemRepo, binRepo, binStockRepo)
	lowStockService := procurementapp.NewLowStockService(
		purchaseOrderRepo, supplierRepo, stockItemRepo, binStockRepo)
	transferService := inventoryapp.NewTransferService(transferRepo, binRepo, binStockRepo, stockItemRepo)
	adjustmentService := inventoryapp.NewAdjustmentService(adjustmentRepo, binRepo, binStockRepo, stockItemRepo)
	countService := inventoryapp.NewCountService(binCountRepo, binRepo, binStockRepo, stockItemRepo)
	dispatchService := dispatchapp.NewDispatchService(
		dispatchRepo, binRepo, binStockRepo, stockItemRepo, evidenceStorage)

	// Initialize event bus with audit trail subscription
	eventBus := event.NewInMemoryEventBus(log)
	auditRecorder := audit.NewRecorder(db.DB, log)
	eventBus.Subscribe(event.NewAuditHandler(auditRecorder))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish lifecycle events
	purchaseOrderService.SetEventPublisher(eventBus)
	lowStockService.SetEventPublisher(eventBus)
	transferService.SetEventPublisher(eventBus)
	adjustmentService.SetEventPublisher(eventBus)
	countService.SetEventPublisher(eventBus)
	dispatchService.SetEventPublisher(eventBus)

	purchaseOrderService.SetTxRunner(db)
	transferService.SetTxRunner(db)
	adjustmentService.SetTxRunner(db)
	countService.SetTxRunner(db)
	dispatchService.SetTxRunner(db)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	siteHandler := handler.NewSiteHandler(siteService)
	stockItemHandler := handler.NewStockItemHandler(stockItemService, binService)
	binHandler := handler.NewBinHandler(binService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService, lowStockService)
	transferHandler := handler.NewTransferHandler(transferService)
	adjustmentHandler := handler.NewAdjustmentHandler(adjustmentService)
	countHandler := handler.NewCountHandler(countService)
	dispatchHandler := handler.NewDispatchHandler(dispatchService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans
	// 5. Metrics - Request counters and latency histograms
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimitWithUploads(cfg.HTTP.MaxBodySize, cfg.Storage.MaxUploadBytes))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/health",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	r.Use(middleware.AuditFailures(auditRecorder))

	// Stricter rate limit for credential endpoints, keyed by client IP
	var authLimit gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimit = middleware.AuthRateLimit(authLimiter)
	} else {
		authLimit = func(c *gin.Context) { c.Next() }
	}

	// Authentication
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authLimit, authHandler.Login)
	authRoutes.POST("/refresh", authLimit, authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.POST("/logout-all", authHandler.LogoutAll)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// User management, admin only
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(middleware.RequireAdmin())
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.DELETE("/:id", userHandler.Delete)
	userRoutes.PUT("/:id/sites", userHandler.AssignSites)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.POST("/:id/reset-password", userHandler.ResetPassword)

	// Suppliers: reads for everyone, writes for catalog managers
	manageCatalog := middleware.RequireCatalogManager()
	supplierRoutes := router.NewDomainGroup("suppliers", "/suppliers")
	supplierRoutes.POST("", manageCatalog, supplierHandler.Create)
	supplierRoutes.GET("", supplierHandler.List)
	supplierRoutes.GET("/:id", supplierHandler.GetByID)
	supplierRoutes.PUT("/:id", manageCatalog, supplierHandler.Update)
	supplierRoutes.DELETE("/:id", manageCatalog, supplierHandler.Delete)
	supplierRoutes.POST("/:id/activate", manageCatalog, supplierHandler.Activate)
	supplierRoutes.POST("/:id/deactivate", manageCatalog, supplierHandler.Deactivate)

	// Sites. The site ID is in the path, so restriction checks run as
	// route middleware before the handler.
	siteScoped := middleware.RequireSiteAccess("id")
	siteRoutes := router.NewDomainGroup("sites", "/sites")
	siteRoutes.POST("", manageCatalog, siteHandler.Create)
	siteRoutes.GET("", siteHandler.List)
	siteRoutes.GET("/:id", siteScoped, siteHandler.GetByID)
	siteRoutes.PUT("/:id", manageCatalog, siteScoped, siteHandler.Update)
	siteRoutes.DELETE("/:id", manageCatalog, siteScoped, siteHandler.Delete)
	siteRoutes.POST("/:id/activate", manageCatalog, siteScoped, siteHandler.Activate)
	siteRoutes.POST("/:id/deactivate", manageCatalog, siteScoped, siteHandler.Deactivate)

	// Stock items
	stockItemRoutes := router.NewDomainGroup("stock-items", "/stock-items")
	stockItemRoutes.POST("", manageCatalog, stockItemHandler.Create)
	stockItemRoutes.GET("", stockItemHandler.List)
	stockItemRoutes.GET("/low-stock", stockItemHandler.LowStock)
	stockItemRoutes.GET("/sku/:sku", stockItemHandler.GetBySKU)
	stockItemRoutes.GET("/:id", stockItemHandler.GetByID)
	stockItemRoutes.PUT("/:id", manageCatalog, stockItemHandler.Update)
	stockItemRoutes.DELETE("/:id", manageCatalog, stockItemHandler.Delete)
	stockItemRoutes.PUT("/:id/suppliers", manageCatalog, stockItemHandler.AssignSuppliers)
	stockItemRoutes.GET("/:id/stock", stockItemHandler.Stock)

	// Bins
	binRoutes := router.NewDomainGroup("bins", "/bins")
	binRoutes.POST("", manageCatalog, binHandler.Create)
	binRoutes.GET("", binHandler.List)
	binRoutes.GET("/:id", binHandler.GetByID)
	binRoutes.PUT("/:id", manageCatalog, binHandler.Update)
	binRoutes.DELETE("/:id", manageCatalog, binHandler.Delete)
	binRoutes.POST("/:id/activate", manageCatalog, binHandler.Activate)
	binRoutes.POST("/:id/deactivate", manageCatalog, binHandler.Deactivate)
	binRoutes.GET("/:id/stock", binHandler.Stock)

	// Purchase orders
	approve := middleware.RequireApprover()
	poRoutes := router.NewDomainGroup("purchase-orders", "/purchase-orders")
	poRoutes.POST("", purchaseOrderHandler.Create)
	poRoutes.GET("", purchaseOrderHandler.List)
	poRoutes.GET("/status-summary", purchaseOrderHandler.StatusSummary)
	poRoutes.GET("/number/:number", purchaseOrderHandler.GetByNumber)
	poRoutes.POST("/generate-low-stock", purchaseOrderHandler.GenerateLowStock)
	poRoutes.GET("/:id", purchaseOrderHandler.GetByID)
	poRoutes.PUT("/:id", purchaseOrderHandler.Update)
	poRoutes.DELETE("/:id", purchaseOrderHandler.Delete)
	poRoutes.POST("/:id/lines", purchaseOrderHandler.AddLine)
	poRoutes.PUT("/:id/lines/:lineId", purchaseOrderHandler.UpdateLine)
	poRoutes.DELETE("/:id/lines/:lineId", purchaseOrderHandler.RemoveLine)
	poRoutes.POST("/:id/submit", purchaseOrderHandler.Submit)
	poRoutes.POST("/:id/approve", approve, purchaseOrderHandler.Approve)
	poRoutes.POST("/:id/reject", approve, purchaseOrderHandler.Reject)
	poRoutes.POST("/:id/cancel", purchaseOrderHandler.Cancel)
	poRoutes.POST("/:id/process", purchaseOrderHandler.Process)

	// Internal transfers
	transferRoutes := router.NewDomainGroup("transfers", "/transfers")
	transferRoutes.POST("", transferHandler.Create)
	transferRoutes.GET("", transferHandler.List)
	transferRoutes.GET("/status-summary", transferHandler.StatusSummary)
	transferRoutes.GET("/:id", transferHandler.GetByID)
	transferRoutes.PUT("/:id", transferHandler.Update)
	transferRoutes.DELETE("/:id", transferHandler.Delete)
	transferRoutes.POST("/:id/lines", transferHandler.AddLine)
	transferRoutes.PUT("/:id/lines/:lineId", transferHandler.UpdateLine)
	transferRoutes.DELETE("/:id/lines/:lineId", transferHandler.RemoveLine)
	transferRoutes.POST("/:id/submit", transferHandler.Submit)
	transferRoutes.POST("/:id/approve", approve, transferHandler.Approve)
	transferRoutes.POST("/:id/reject", approve, transferHandler.Reject)
	transferRoutes.POST("/:id/cancel", transferHandler.Cancel)
	transferRoutes.POST("/:id/complete", transferHandler.Complete)

	// Stock adjustments
	adjustmentRoutes := router.NewDomainGroup("adjustments", "/adjustments")
	adjustmentRoutes.POST("", adjustmentHandler.Create)
	adjustmentRoutes.GET("", adjustmentHandler.List)
	adjustmentRoutes.GET("/status-summary", adjustmentHandler.StatusSummary)
	adjustmentRoutes.GET("/:id", adjustmentHandler.GetByID)
	adjustmentRoutes.PUT("/:id", adjustmentHandler.Update)
	adjustmentRoutes.DELETE("/:id", adjustmentHandler.Delete)
	adjustmentRoutes.POST("/:id/lines", adjustmentHandler.AddLine)
	adjustmentRoutes.DELETE("/:id/lines/:lineId", adjustmentHandler.RemoveLine)
	adjustmentRoutes.POST("/:id/submit", adjustmentHandler.Submit)
	adjustmentRoutes.POST("/:id/approve", approve, adjustmentHandler.Approve)
	adjustmentRoutes.POST("/:id/reject", approve, adjustmentHandler.Reject)
	adjustmentRoutes.POST("/:id/cancel", adjustmentHandler.Cancel)
	adjustmentRoutes.POST("/:id/complete", adjustmentHandler.Complete)

	// Bin counts
	countRoutes := router.NewDomainGroup("bin-counts", "/bin-counts")
	countRoutes.POST("", countHandler.Create)
	countRoutes.GET("", countHandler.List)
	countRoutes.GET("/status-summary", countHandler.StatusSummary)
	countRoutes.GET("/:id", countHandler.GetByID)
	countRoutes.PUT("/:id", countHandler.Update)
	countRoutes.DELETE("/:id", countHandler.Delete)
	countRoutes.POST("/:id/lines", countHandler.AddLine)
	countRoutes.PUT("/:id/lines/:lineId", countHandler.UpdateLine)
	countRoutes.DELETE("/:id/lines/:lineId", countHandler.RemoveLine)
	countRoutes.POST("/:id/submit", countHandler.Submit)
	countRoutes.POST("/:id/approve", approve, countHandler.Approve)
	countRoutes.POST("/:id/reject", approve, countHandler.Reject)
	countRoutes.POST("/:id/cancel", countHandler.Cancel)
	countRoutes.POST("/:id/complete", countHandler.Complete)

	// Dispatch logs with evidence uploads
	dispatchRoutes := router.NewDomainGroup("dispatches", "/dispatches")
	dispatchRoutes.POST("", dispatchHandler.Create)
	dispatchRoutes.GET("", dispatchHandler.List)
	dispatchRoutes.GET("/evidence-summary", dispatchHandler.EvidenceSummary)
	dispatchRoutes.GET("/:id", dispatchHandler.GetByID)
	dispatchRoutes.PUT("/:id", dispatchHandler.Update)
	dispatchRoutes.DELETE("/:id", dispatchHandler.Delete)
	dispatchRoutes.POST("/:id/lines", dispatchHandler.AddLine)
	dispatchRoutes.DELETE("/:id/lines/:lineId", dispatchHandler.RemoveLine)
	dispatchRoutes.POST("/:id/evidence", dispatchHandler.AttachEvidence)
	dispatchRoutes.POST("/:id/evidence/complete", dispatchHandler.CompleteEvidence)

	// System
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/health", systemHandler.Health)
	systemRoutes.GET("/info", systemHandler.Info)

	r.Register(authRoutes).
		Register(userRoutes).
		Register(supplierRoutes).
		Register(siteRoutes).
		Register(stockItemRoutes).
		Register(binRoutes).
		Register(poRoutes).
		Register(transferRoutes).
		Register(adjustmentRoutes).
		Register(countRoutes).
		Register(dispatchRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
