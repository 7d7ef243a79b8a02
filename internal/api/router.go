package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"smartshop-ai/internal/api/handlers/health"
	mealHandler "smartshop-ai/internal/api/handlers/meal"
	visionHandler "smartshop-ai/internal/api/handlers/vision"
	"smartshop-ai/internal/api/middleware"
	"smartshop-ai/internal/core/ai/cache"
	"smartshop-ai/internal/core/ai/embed"
	"smartshop-ai/internal/core/ai/service"
	"smartshop-ai/internal/core/meal"
	"smartshop-ai/internal/core/meal/index"
	"smartshop-ai/internal/core/vision"
	"smartshop-ai/internal/infrastructure/config"
	"smartshop-ai/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (10MB)
	maxBodySize = 10 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager) (*gin.Engine, error) {
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

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 速率限制與請求去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("gemini_model", cfg.Gemini.Model),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化 AI 服務
	aiService := service.NewService(cfg, cacheManager)
	if aiService == nil {
		common.LogError("Failed to initialize AI service")
		return nil, fmt.Errorf("failed to initialize AI service")
	}

	// 初始化嵌入客戶端與餐點索引
	embedClient := embed.NewClient(cfg)
	mealStore := index.NewStore(cfg, embedClient)
	if err := mealStore.Warmup(); err != nil {
		// 索引缺失時服務仍可啟動，檢索將回報錯誤
		common.LogWarn("餐點索引預載失敗",
			zap.String("index_path", cfg.Meal.IndexPath),
			zap.Error(err),
		)
	}

	// 初始化餐點助理服務
	assistantSvc := meal.NewAssistantService(cfg, mealStore, aiService)
	if assistantSvc == nil {
		common.LogError("Failed to initialize meal assistant service")
		return nil, fmt.Errorf("failed to initialize meal assistant service")
	}

	// 初始化視覺客戶端
	visionClient := vision.NewClient(cfg)

	common.LogInfo("Meal assistant services initialized successfully",
		zap.Bool("ai_service_initialized", aiService != nil),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Int("indexed_recipes", mealStore.Count()),
		zap.String("environment", cfg.App.Env),
	)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		// 創建新的請求上下文
		req := c.Request.WithContext(ctx)
		c.Request = req

		// 設置配置
		c.Set("config", cfg)

		// 設置健康檢查所需的索引持有者
		c.Set("meal_store", mealStore)

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

	// 餐點助理路由
	mealHandlerInstance := mealHandler.NewHandler(assistantSvc)
	mealGroup := router.Group("/meal-assistant")
	{
		mealGroup.POST("/suggest", mealHandlerInstance.HandleSuggest)
		mealGroup.POST("/feedback", mealHandlerInstance.HandleFeedback)
	}

	// 視覺代理路由
	visionHandlerInstance := visionHandler.NewHandler(visionClient, cfg.Vision.MaxSizeBytes)
	router.POST("/face/encode", visionHandlerInstance.HandleFaceEncode)
	router.POST("/product/recognize", visionHandlerInstance.HandleProductRecognize)

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("ai_service_initialized", aiService != nil),
		zap.Bool("assistant_service_initialized", assistantSvc != nil),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
