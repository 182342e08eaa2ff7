package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jessie533tw/procurement-management-system/internal/config"
	"github.com/Jessie533tw/procurement-management-system/internal/middleware"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/handler"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
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
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting procurement-management-system",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Project{},
		&entity.ProjectBudget{},
		&entity.ProjectProgress{},
		&entity.Vendor{},
		&entity.Material{},
		&entity.Inquiry{},
		&entity.InquiryItem{},
		&entity.InquiryResponse{},
		&entity.InquiryResponseItem{},
		&entity.PurchaseOrder{},
		&entity.PurchaseOrderItem{},
		&entity.FinancialRecord{},
		&entity.Attachment{},
		&entity.CodeSequence{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化MinIO（未配置时附件功能不可用）
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			zapLogger.Fatal("Failed to init MinIO client", zap.Error(err))
		}
		zapLogger.Info("MinIO client initialized", zap.String("endpoint", cfg.MinIO.Endpoint))
	}

	// 初始化依赖
	repos := repository.NewRepositories(db)

	authSvc := service.NewAuthService(repos.User, rdb, cfg.JWT)
	projectSvc := service.NewProjectService(repos.Project)
	vendorSvc := service.NewVendorService(repos.Vendor)
	materialSvc := service.NewMaterialService(repos.Material)
	inquirySvc := service.NewInquiryService(repos.Inquiry, repos.Vendor, db)
	poSvc := service.NewPOService(repos.PO, repos.Project, repos.Vendor, repos.Financial, db)
	financialSvc := service.NewFinancialService(repos.Financial)
	dashboardSvc := service.NewDashboardService(db, rdb)
	attachmentSvc := service.NewAttachmentService(repos.Attachment, minioClient, cfg.MinIO.Bucket)

	// 用户表为空时初始化管理员账号
	adminUser := config.GetEnvOrDefault("ADMIN_USERNAME", "admin")
	adminPass := config.GetEnvOrDefault("ADMIN_PASSWORD", "admin123")
	if err := authSvc.EnsureAdminUser(context.Background(), adminUser, adminPass); err != nil {
		zapLogger.Warn("Failed to ensure admin user", zap.Error(err))
	}

	handlers := handler.NewHandlers(authSvc, projectSvc, vendorSvc, materialSvc,
		inquirySvc, poSvc, financialSvc, dashboardSvc, attachmentSvc)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
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
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证 (无需登录)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			// 当前用户
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 项目管理
			projects := authorized.Group("/projects")
			{
				projects.GET("", h.Project.ListProjects)
				projects.POST("", h.Project.CreateProject)
				projects.GET("/:id", h.Project.GetProject)
				projects.PUT("/:id", h.Project.UpdateProject)
				projects.DELETE("/:id", h.Project.DeleteProject)
				projects.GET("/:id/budget-summary", h.Project.GetBudgetSummary)
				projects.GET("/:id/progress", h.Project.ListProgress)
			}

			// 供应商管理
			vendors := authorized.Group("/vendors")
			{
				vendors.GET("", h.Vendor.ListVendors)
				vendors.POST("", h.Vendor.CreateVendor)
				vendors.GET("/performance-analysis", h.Vendor.PerformanceAnalysis)
				vendors.GET("/by-specialty", h.Vendor.ListBySpecialty)
				vendors.GET("/top-vendors", h.Vendor.ListTopVendors)
				vendors.GET("/:id", h.Vendor.GetVendor)
				vendors.PUT("/:id", h.Vendor.UpdateVendor)
				vendors.DELETE("/:id", h.Vendor.DeleteVendor)
				vendors.PATCH("/:id/rating", h.Vendor.UpdateRating)
			}

			// 物料库
			materials := authorized.Group("/materials")
			{
				materials.GET("", h.Material.ListMaterials)
				materials.POST("", h.Material.CreateMaterial)
				materials.GET("/categories", h.Material.ListCategories)
				materials.GET("/category/:category", h.Material.ListByCategory)
				materials.GET("/search", h.Material.SearchMaterials)
				materials.GET("/usage-analysis", h.Material.UsageAnalysis)
				materials.GET("/top-materials", h.Material.TopMaterials)
				materials.GET("/:id", h.Material.GetMaterial)
				materials.PUT("/:id", h.Material.UpdateMaterial)
				materials.DELETE("/:id", h.Material.DeactivateMaterial)
				materials.GET("/:id/price-history", h.Material.GetPriceHistory)
			}

			// 询价管理
			inquiries := authorized.Group("/inquiries")
			{
				inquiries.GET("", h.Inquiry.ListInquiries)
				inquiries.POST("", h.Inquiry.CreateInquiry)
				inquiries.GET("/:id", h.Inquiry.GetInquiry)
				inquiries.PATCH("/:id/status", h.Inquiry.UpdateInquiryStatus)
				inquiries.DELETE("/:id", h.Inquiry.DeleteInquiry)
				inquiries.POST("/:id/responses", h.Inquiry.AddResponse)
				inquiries.PATCH("/responses/:responseId/status", h.Inquiry.UpdateResponseStatus)
				inquiries.GET("/:id/comparison", h.Inquiry.GetComparison)
			}

			// 采购单管理
			purchaseOrders := authorized.Group("/purchase-orders")
			{
				purchaseOrders.GET("", h.PO.ListPurchaseOrders)
				purchaseOrders.POST("", h.PO.CreatePurchaseOrder)
				purchaseOrders.GET("/delivery-status", h.PO.DeliveryStatus)
				purchaseOrders.GET("/cost-analysis", h.PO.CostAnalysis)
				purchaseOrders.GET("/export", h.PO.ExportPurchaseOrders)
				purchaseOrders.POST("/items/:itemId/receive", h.PO.ReceiveItem)
				purchaseOrders.GET("/:id", h.PO.GetPurchaseOrder)
				purchaseOrders.PUT("/:id", h.PO.UpdatePurchaseOrder)
				purchaseOrders.DELETE("/:id", h.PO.DeletePurchaseOrder)
				purchaseOrders.PATCH("/:id/approve", h.PO.ApprovePurchaseOrder)
				purchaseOrders.PATCH("/:id/status", h.PO.UpdatePurchaseOrderStatus)
				purchaseOrders.GET("/:id/financial-records", h.PO.ListFinancialRecords)
			}

			// 财务记录
			financialRecords := authorized.Group("/financial-records")
			{
				financialRecords.GET("", h.Financial.ListFinancialRecords)
				financialRecords.POST("", h.Financial.CreateFinancialRecord)
				financialRecords.GET("/:id", h.Financial.GetFinancialRecord)
				financialRecords.PATCH("/:id/status", h.Financial.UpdateFinancialRecordStatus)
			}

			// 驾驶舱
			authorized.GET("/dashboard/overview", h.Dashboard.GetOverview)

			// 附件
			attachments := authorized.Group("/attachments")
			{
				attachments.POST("", h.Attachment.Upload)
				attachments.GET("", h.Attachment.List)
				attachments.GET("/:id/download", h.Attachment.Download)
				attachments.DELETE("/:id", h.Attachment.Delete)
			}
		}
	}
}
