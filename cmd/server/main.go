package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/langchou/driveoncampus/internal/account"
	"github.com/langchou/driveoncampus/internal/api/handlers"
	"github.com/langchou/driveoncampus/internal/catalog"
	"github.com/langchou/driveoncampus/internal/config"
	"github.com/langchou/driveoncampus/internal/repository"
	"github.com/langchou/driveoncampus/internal/service"
	"github.com/langchou/driveoncampus/internal/session"
	"github.com/langchou/driveoncampus/pkg/ws"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting DriveOnCampus", zap.String("port", cfg.ServerPort))

	// 创建 context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 目录来源：配置了数据库则用数据库，否则用内置目录
	var source catalog.Source = catalog.SeedSource()
	if cfg.DatabaseURL != "" {
		db, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect database", zap.Error(err))
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database migrated successfully")

		catalogRepo := repository.NewCatalogRepository(db)
		if err := catalogRepo.Seed(ctx, catalog.Campuses(), catalog.Seed()); err != nil {
			logger.Fatal("Failed to seed catalog", zap.Error(err))
		}
		source = catalogRepo
	} else {
		logger.Info("DATABASE_URL not set, using built-in catalog")
	}

	// 创建 WebSocket Hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run()

	// 创建校区服务
	campusService := service.NewCampusService(cfg, logger, source, wsHub)
	if err := campusService.Load(ctx); err != nil {
		logger.Fatal("Failed to load catalogs", zap.Error(err))
	}
	if _, err := campusService.Campus(cfg.DefaultCampus); err != nil {
		logger.Warn("Default campus not found", zap.String("campus", cfg.DefaultCampus))
	}

	// 地图会话
	sessions := session.NewManager(func(id, from, to string) {
		logger.Debug("Map session state changed",
			zap.String("session", id),
			zap.String("from", from),
			zap.String("to", to),
		)
	})

	// 创建 HTTP 处理器
	handler := handlers.NewHandler(
		logger,
		campusService,
		account.NewValidator(cfg.EmailDomain),
		sessions,
		wsHub,
		cfg.DefaultCampus,
	)

	// 设置 Gin 模式
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// 注册路由
	handler.RegisterRoutes(router)

	// 启动 HTTP 服务器
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 优雅关闭
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// initLogger 初始化日志
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

// corsMiddleware CORS 中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
