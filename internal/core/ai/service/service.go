package service

import (
	"context"
	"fmt"

	"smartshop-ai/internal/core/ai/cache"
	"smartshop-ai/internal/core/ai/gemini"
	"smartshop-ai/internal/infrastructure/config"
)

// Service 生成模型服務，包裝 Gemini 客戶端與回覆快取
type Service struct {
	config       *config.Config
	gemini       *gemini.Client
	cacheManager *cache.CacheManager
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, cacheManager *cache.CacheManager) *Service {
	return &Service{
		config:       cfg,
		gemini:       gemini.NewClient(cfg),
		cacheManager: cacheManager,
	}
}

// Configured 是否已配置生成憑證
func (s *Service) Configured() bool {
	return s.gemini.Configured()
}

// ProcessRequest 統一對外方法：查快取、呼叫模型、回填快取
func (s *Service) ProcessRequest(ctx context.Context, prompt string, temperature float64) (string, error) {
	key := fmt.Sprintf("%s|t=%.2f", prompt, temperature)

	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, key); err == nil && val != "" {
			return val, nil
		}
	}

	content, err := s.gemini.Generate(ctx, prompt, temperature)
	if err != nil {
		return "", err
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, key, content)
	}

	return content, nil
}
