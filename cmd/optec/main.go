package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/auth"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/config"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/middleware"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/entity"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/handler"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/repository"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/service"
	qtentity "github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/quotation/entity"
	qthandler "github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/quotation/handler"
	qtrepo "github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/quotation/repository"
	qtsvc "github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/quotation/service"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/storage"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// defaultSuppliers are seeded on first boot so a fresh install has the main
// labs available. ON CONFLICT keeps reboots idempotent.
var defaultSuppliers = []string{"Essilor", "Zeiss", "Hoya", "Saturn", "Transitions", "Outros"}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting optec service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Supplier{},
		&entity.Product{},
		&entity.PriceRule{},
		&entity.PurchaseOrder{},
		&entity.PurchaseItem{},
		&entity.Payment{},
		&qtentity.Product{},
		&qtentity.ServiceEntry{},
		&qtentity.ServiceLink{},
		&qtentity.ConditionalAddition{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	migrationSQL := []string{
		"CREATE INDEX IF NOT EXISTS idx_purchase_items_os_number ON purchase_items(os_number)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_orders_status ON purchase_orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_payments_paid_at ON payments(paid_at)",
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("Migration warning", zap.String("sql", sql), zap.Error(err))
		}
	}

	seedSuppliers(db, zapLogger)

	rdb := initRedis(cfg.Redis)
	var locker service.ServiceOrderLocker = service.NoopServiceOrderLocker{}
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zapLogger.Warn("Redis unavailable, submissions run without the distributed lock", zap.Error(err))
		} else {
			locker = service.NewRedisServiceOrderLocker(rdb)
		}
	}

	archiver := storage.NewArchiver(cfg.MinIO, zapLogger)

	repos := repository.NewRepositories(db)
	orderSvc := service.NewOrderService(repos.Order, repos.Product, repos.Supplier, repos.PriceRule, locker, zapLogger)
	paymentSvc := service.NewPaymentService(repos.Order, zapLogger)
	reportSvc := service.NewReportService(repos.Order)
	supplierSvc := service.NewSupplierService(repos.Supplier)
	productSvc := service.NewProductService(repos.Product)
	ruleSvc := service.NewPriceRuleService(repos.PriceRule, repos.Product, repos.Supplier)
	importSvc := service.NewCatalogImportService(db, zapLogger)

	qtCatalog := qtrepo.NewCatalogRepository(db)
	matcher := qtsvc.NewMatcher(qtCatalog)
	qtImportSvc := qtsvc.NewImportService(db, zapLogger)

	authSvc := auth.NewService(*cfg)
	authHandler := auth.NewHandler(authSvc)
	handlers := handler.NewHandlers(
		orderSvc, paymentSvc, reportSvc,
		supplierSvc, productSvc, ruleSvc,
		importSvc, handler.ImportTargets{Quotation: qtImportSvc},
		archiver, zapLogger,
	)
	quotationHandler := qthandler.NewQuotationHandler(matcher)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, cfg, authHandler, handlers, quotationHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func registerRoutes(r *gin.Engine, cfg *config.Config, authH *auth.Handler, h *handler.Handlers, qt *qthandler.QuotationHandler) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	api := r.Group("/api/v1")
	api.POST("/auth/login", authH.Login)

	authed := api.Group("", middleware.JWTAuth(cfg.JWT.Secret))

	buyer := authed.Group("", middleware.RequireRole(middleware.RoleBuyer))
	{
		buyer.POST("/orders", h.Order.SubmitOrders)
		buyer.GET("/orders", h.Order.ListOrders)
		buyer.GET("/orders/:id", h.Order.GetOrder)
		buyer.DELETE("/orders/:id", h.Order.DeleteOrder)
		buyer.POST("/orders/:id/cancel", h.Order.CancelOrder)
	}

	payer := authed.Group("", middleware.RequireRole(middleware.RolePayer))
	{
		payer.GET("/payments/pending", h.Payment.ListPending)
		payer.POST("/orders/:id/payment", h.Payment.SettleOrder)
		payer.GET("/reports/payments", h.Payment.DailyReport)
		payer.GET("/reports/payments/csv", h.Payment.DailyReportCSV)
	}

	admin := authed.Group("", middleware.RequireRole(middleware.RoleAdmin))
	{
		admin.GET("/suppliers", h.Supplier.ListSuppliers)
		admin.GET("/suppliers/:id", h.Supplier.GetSupplier)
		admin.POST("/suppliers", h.Supplier.CreateSupplier)
		admin.PUT("/suppliers/:id", h.Supplier.UpdateSupplier)
		admin.DELETE("/suppliers/:id", h.Supplier.DeleteSupplier)

		admin.GET("/products", h.Product.ListProducts)
		admin.GET("/products/:id", h.Product.GetProduct)
		admin.POST("/products", h.Product.CreateProduct)
		admin.PUT("/products/:id", h.Product.UpdateProduct)
		admin.DELETE("/products/:id", h.Product.DeleteProduct)

		admin.GET("/price-rules", h.Rule.ListRules)
		admin.GET("/price-rules/:id", h.Rule.GetRule)
		admin.POST("/price-rules", h.Rule.CreateRule)
		admin.PUT("/price-rules/:id", h.Rule.UpdateRule)
		admin.DELETE("/price-rules/:id", h.Rule.DeleteRule)

		admin.GET("/imports/template", h.Import.DownloadTemplate)
		admin.POST("/imports/suppliers", h.Import.ImportSuppliers)
		admin.POST("/imports/products", h.Import.ImportProducts)
		admin.POST("/imports/rules", h.Import.ImportRules)
		admin.POST("/imports/quotation/products", h.Import.ImportQuotationProducts)
		admin.POST("/imports/quotation/services", h.Import.ImportQuotationServices)
	}

	// Quotation matching is available to every authenticated role, the
	// customer-facing budget screen included.
	authed.POST("/quotation/products/match", qt.MatchProducts)
	authed.POST("/quotation/services/match", qt.MatchServices)
}

func seedSuppliers(db *gorm.DB, zapLogger *zap.Logger) {
	for _, name := range defaultSuppliers {
		supplier := entity.Supplier{
			ID:     uuid.New().String()[:32],
			Name:   name,
			Active: true,
		}
		err := db.Exec(
			"INSERT INTO suppliers (id, name, active, billing, created_at, updated_at) VALUES (?, ?, ?, false, NOW(), NOW()) ON CONFLICT (name) DO NOTHING",
			supplier.ID, supplier.Name, supplier.Active,
		).Error
		if err != nil {
			zapLogger.Warn("Seed supplier warning", zap.String("name", name), zap.Error(err))
		}
	}
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}
