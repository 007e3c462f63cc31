package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	chefHandler "smart-fridge-api/internal/api/handlers/chef"
	fridgeHandler "smart-fridge-api/internal/api/handlers/fridge"
	"smart-fridge-api/internal/api/handlers/health"
	"smart-fridge-api/internal/api/middleware"
	"smart-fridge-api/internal/core/ai"
	"smart-fridge-api/internal/core/ai/cache"
	chefService "smart-fridge-api/internal/core/chef"
	fridgeService "smart-fridge-api/internal/core/fridge"
	"smart-fridge-api/internal/core/inventory"
	"smart-fridge-api/internal/infrastructure/config"
	"smart-fridge-api/internal/pkg/common"
)

const (
	// 超時設置，掃描加上 vision 模型的來回最長就是這個長度
	timeoutDuration = 120 * time.Second
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制，收據照片走 base64 會放大約 1/3
	maxBodySize := cfg.Image.MaxSizeBytes
	if maxBodySize <= 0 {
		maxBodySize = 10 << 20
	}
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 請求去重，避免連點送出同一張收據觸發兩次掃描
	router.Use(middleware.Deduplication(cfg))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.OpenRouter.Model),
		zap.String("session_backend", cfg.Chef.SessionBackend),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化服務
	aiSvc := ai.NewService(cfg, cacheManager)
	if aiSvc == nil {
		common.LogError("Failed to initialize AI service")
		return nil, fmt.Errorf("failed to initialize AI service")
	}

	store := inventory.NewStore(cfg)
	if store == nil {
		common.LogError("Failed to initialize inventory store")
		return nil, fmt.Errorf("failed to initialize inventory store")
	}

	scanSvc := fridgeService.NewScanService(cfg, aiSvc, store)
	if scanSvc == nil {
		common.LogError("Failed to initialize scan service")
		return nil, fmt.Errorf("failed to initialize scan service")
	}

	sessions, err := chefService.NewSessionStore(cfg)
	if err != nil {
		common.LogError("Failed to initialize session store", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	chefSvc := chefService.NewService(cfg, aiSvc, store, sessions)
	if chefSvc == nil {
		common.LogError("Failed to initialize chef service")
		return nil, fmt.Errorf("failed to initialize chef service")
	}

	common.LogInfo("Services initialized successfully",
		zap.Bool("ai_service_initialized", aiSvc != nil),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.String("environment", cfg.App.Env),
	)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 設置配置與快取管理器，健康檢查會用到
		c.Set("config", cfg)
		c.Set("cache_manager", cacheManager)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		fridgeInstance := fridgeHandler.NewHandler(scanSvc)
		chefInstance := chefHandler.NewHandler(chefSvc)

		// 冰箱掃描與庫存
		fridgeGroup := api.Group("/fridge")
		{
			fridgeGroup.POST("/scan", fridgeInstance.HandleScan)
			fridgeGroup.GET("/items", fridgeInstance.HandleListItems)
		}

		// 廚師對話
		chefGroup := api.Group("/chef")
		{
			chefGroup.POST("/generate", chefInstance.HandleGenerate)
			chefGroup.POST("/revise", chefInstance.HandleRevise)
			chefGroup.POST("/message", chefInstance.HandleMessage)
			chefGroup.POST("/confirm", chefInstance.HandleConfirm)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
