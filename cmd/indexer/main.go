package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"smartshop-ai/internal/core/ai/embed"
	"smartshop-ai/internal/core/meal/index"
	"smartshop-ai/internal/infrastructure/config"
	"smartshop-ai/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 命令行參數覆蓋設定檔路徑
	recipesPath := flag.String("recipes", cfg.Meal.RecipesPath, "食譜語料 JSON 路徑")
	indexPath := flag.String("index", cfg.Meal.IndexPath, "索引輸出路徑")
	metadataPath := flag.String("metadata", cfg.Meal.MetadataPath, "中繼資料輸出路徑")
	timeout := flag.Duration("timeout", 10*time.Minute, "建置逾時")
	flag.Parse()

	common.LogInfo("開始建置餐點索引",
		zap.String("recipes_path", *recipesPath),
		zap.String("index_path", *indexPath),
		zap.String("embedding_model", cfg.Embedding.Model),
	)

	// 載入語料
	recipes, err := index.LoadRecipes(*recipesPath)
	if err != nil {
		common.LogFatal("載入食譜語料失敗",
			zap.String("path", *recipesPath),
			zap.Error(err),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// 建置索引；空語料為致命錯誤，不寫出任何產物
	embedClient := embed.NewClient(cfg)
	if err := index.BuildIndex(ctx, recipes, embedClient, *indexPath, *metadataPath); err != nil {
		common.LogFatal("建置索引失敗",
			zap.Int("recipe_count", len(recipes)),
			zap.Error(err),
		)
	}

	common.LogInfo("索引建置完成",
		zap.Int("recipe_count", len(recipes)),
		zap.String("index_path", *indexPath),
		zap.String("metadata_path", *metadataPath),
	)
}
