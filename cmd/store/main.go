package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/config"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/middleware"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/approval"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/authz"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/blob"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/numbering"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/handler"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/repository"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
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

	zapLogger.Info("Starting central store service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Supplier{},
		&entity.College{},
		&entity.CentralStore{},
		&entity.ProcurementRequirement{},
		&entity.RequirementItem{},
		&entity.SupplierQuotation{},
		&entity.QuotationItem{},
		&entity.PurchaseOrder{},
		&entity.PurchaseOrderItem{},
		&entity.GoodsReceiptNote{},
		&entity.GoodsReceiptItem{},
		&entity.InspectionNote{},
		&entity.CentralStoreInventory{},
		&entity.InventoryTransaction{},
		&entity.StoreIndent{},
		&entity.IndentItem{},
		&entity.MaterialIssueNote{},
		&entity.MaterialIssueItem{},
		&entity.ActivityLog{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	rdb := initRedis(cfg.Redis)

	blobs, err := initBlobStore(cfg.MinIO)
	if err != nil {
		zapLogger.Warn("Blob storage unavailable, document export disabled", zap.Error(err))
	}

	var authorizer authz.Authorizer
	if cfg.Authz.BaseURL != "" {
		authorizer = authz.NewClient(cfg.Authz.BaseURL, cfg.Authz.Token, rdb)
	} else {
		zapLogger.Warn("Authz service not configured, allowing all actions")
		authorizer = authz.AllowAll{}
	}

	var approvals service.ApprovalClient
	if cfg.Approval.BaseURL != "" {
		approvals = approval.NewClient(cfg.Approval.BaseURL, cfg.Approval.Token)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, service.Deps{
		DB:         db,
		Logger:     zapLogger,
		Numbers:    numbering.NewGenerator(rdb, db),
		Approvals:  approvals,
		Authorizer: authorizer,
		Blobs:      blobs,
	})
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

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
		Logger: logger.Default.LogMode(logger.Info),
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
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func initBlobStore(cfg config.MinIOConfig) (blob.Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint not configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	return blob.NewMinioStore(client, cfg.Bucket), nil
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
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

	v1 := r.Group("/api/v1/store")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", h.MasterData.ListSuppliers)
			suppliers.POST("", h.MasterData.CreateSupplier)
			suppliers.GET("/:id", h.MasterData.GetSupplier)
			suppliers.POST("/:id/status", h.MasterData.UpdateSupplierStatus)
		}

		colleges := v1.Group("/colleges")
		{
			colleges.GET("", h.MasterData.ListColleges)
			colleges.POST("", h.MasterData.CreateCollege)
		}

		stores := v1.Group("/central-stores")
		{
			stores.GET("", h.MasterData.ListCentralStores)
			stores.POST("", h.MasterData.CreateCentralStore)
		}

		requirements := v1.Group("/requirements")
		{
			requirements.GET("", h.Requirement.List)
			requirements.POST("", h.Requirement.Create)
			requirements.GET("/:id", h.Requirement.Get)
			requirements.POST("/:id/submit", h.Requirement.Submit)
			requirements.POST("/:id/decision", h.Requirement.Decide)
			requirements.POST("/:id/cancel", h.Requirement.Cancel)
			requirements.GET("/:id/quotations", h.Quotation.ListByRequirement)
		}

		quotations := v1.Group("/quotations")
		{
			quotations.GET("", h.Quotation.List)
			quotations.POST("", h.Quotation.Create)
			quotations.GET("/:id", h.Quotation.Get)
			quotations.POST("/:id/select", h.Quotation.Select)
		}

		pos := v1.Group("/purchase-orders")
		{
			pos.GET("", h.PO.List)
			pos.POST("", h.PO.Create)
			pos.GET("/:id", h.PO.Get)
			pos.POST("/:id/send", h.PO.Send)
			pos.POST("/:id/acknowledge", h.PO.Acknowledge)
			pos.POST("/:id/check-fulfillment", h.PO.CheckFulfillment)
			pos.POST("/:id/cancel", h.PO.Cancel)
		}

		grns := v1.Group("/grns")
		{
			grns.GET("", h.GRN.List)
			grns.POST("", h.GRN.Create)
			grns.GET("/:id", h.GRN.Get)
			grns.POST("/:id/submit-inspection", h.GRN.SubmitForInspection)
			grns.POST("/:id/inspection", h.GRN.RecordInspection)
			grns.POST("/:id/approve", h.GRN.Approve)
			grns.POST("/:id/reject", h.GRN.Reject)
			grns.POST("/:id/post", h.GRN.Post)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.GET("", h.Inventory.List)
			inventory.GET("/alerts", h.Inventory.Alerts)
			inventory.POST("/adjust", h.Inventory.Adjust)
			inventory.GET("/:storeId/items/:itemCode", h.Inventory.GetItem)
			inventory.GET("/:storeId/items/:itemCode/transactions", h.Inventory.ListTransactions)
		}

		indents := v1.Group("/indents")
		{
			indents.GET("", h.Indent.List)
			indents.POST("", h.Indent.Create)
			indents.GET("/:id", h.Indent.Get)
			indents.POST("/:id/submit", h.Indent.Submit)
			indents.POST("/:id/college-approve", h.Indent.CollegeApprove)
			indents.POST("/:id/college-reject", h.Indent.CollegeReject)
			indents.POST("/:id/super-approve", h.Indent.SuperApprove)
			indents.POST("/:id/super-reject", h.Indent.SuperReject)
			indents.POST("/:id/cancel", h.Indent.Cancel)
		}

		issues := v1.Group("/material-issues")
		{
			issues.GET("", h.MaterialIssue.List)
			issues.POST("", h.MaterialIssue.Create)
			issues.GET("/:id", h.MaterialIssue.Get)
			issues.POST("/:id/dispatch", h.MaterialIssue.Dispatch)
			issues.POST("/:id/receive", h.MaterialIssue.ConfirmReceipt)
			issues.POST("/:id/cancel", h.MaterialIssue.Cancel)
		}
	}
}
